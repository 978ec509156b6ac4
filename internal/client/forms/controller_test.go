package forms

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/homepoint/internal/client/api"
	"github.com/dmitrijs2005/homepoint/internal/client/httpclient"
	"github.com/dmitrijs2005/homepoint/internal/client/imagesrc"
	"github.com/dmitrijs2005/homepoint/internal/client/keys"
	"github.com/dmitrijs2005/homepoint/internal/client/models"
	"github.com/dmitrijs2005/homepoint/internal/client/querycache"
	"github.com/dmitrijs2005/homepoint/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	method string
	path   string
	body   any
}

type fakeDoer struct {
	mu    sync.Mutex
	calls []call
	reply func(method, path string) (string, error)
}

func (f *fakeDoer) Do(_ context.Context, method, path string, body any, _ http.Header) (json.RawMessage, error) {
	f.mu.Lock()
	f.calls = append(f.calls, call{method, path, body})
	f.mu.Unlock()
	if f.reply == nil {
		return nil, nil
	}
	resp, err := f.reply(method, path)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(resp), nil
}

func (f *fakeDoer) all() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]call(nil), f.calls...)
}

func replyWith(body string) func(string, string) (string, error) {
	return func(string, string) (string, error) { return body, nil }
}

func setup(t *testing.T, reply func(string, string) (string, error)) (*fakeDoer, *api.API, *querycache.Cache) {
	t.Helper()
	d := &fakeDoer{reply: reply}
	c := querycache.New(querycache.WithGCGrace(0))
	t.Cleanup(c.Close)
	return d, api.New(d), c
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func validMaster() models.Master {
	return models.Master{
		Email:   "office@example.com",
		Address: models.Address{RegisteredOffice: "A", MarketingOffice: "B"},
		Rera:    "R-1",
		Phone:   []string{"+1 555"},
	}
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "empty", StateEmpty.String())
	assert.Equal(t, "viewing", StateViewing.String())
	assert.Equal(t, "editing", StateEditing.String())
	assert.Equal(t, "creating", StateCreating.String())
}

func TestMaster_LogoRequired(t *testing.T) {
	d, a, c := setup(t, nil)
	ctl := NewMaster(c, a)

	ctl.Load(querycache.Entry{Data: (*models.Master)(nil)})
	require.Equal(t, StateEmpty, ctl.State())
	require.NoError(t, ctl.BeginCreate())
	require.NoError(t, ctl.Edit(func(m *models.Master) { *m = validMaster() }))

	_, err := ctl.Submit(context.Background())

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Logo is required", verr.Message)
	assert.Equal(t, "logo", verr.Field)
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.Empty(t, d.all(), "no request may be sent")
	assert.Equal(t, StateCreating, ctl.State())
	assert.Equal(t, "office@example.com", ctl.Draft().Value.Email)
}

func TestMaster_CreateSendsPNGDataURI(t *testing.T) {
	d, a, c := setup(t, replyWith(`{"data":{"_id":"m1","email":"office@example.com","logo":"data:image/png;base64,AAAA"}}`))
	ctl := NewMaster(c, a)

	_, err := c.Get(context.Background(), keys.Master, func(context.Context) (any, error) { return (*models.Master)(nil), nil })
	require.NoError(t, err)

	require.NoError(t, ctl.BeginCreate())
	require.NoError(t, ctl.Edit(func(m *models.Master) { *m = validMaster() }))
	require.NoError(t, ctl.SetFiles("logo", imagesrc.Bytes{FileName: "logo.png", Type: "image/png", Data: pngBytes(t)}))

	rec, err := ctl.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "m1", rec.ID)
	assert.Equal(t, StateViewing, ctl.State())
	assert.False(t, ctl.Editable())

	calls := d.all()
	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodPost, calls[0].method)
	assert.Equal(t, "/master", calls[0].path)
	sent := calls[0].body.(models.Master)
	assert.True(t, strings.HasPrefix(sent.Logo, "data:image/png;base64,"), sent.Logo)

	e, ok := c.Peek(keys.Master)
	require.True(t, ok)
	assert.True(t, e.Stale)
}

func TestMaster_EditUpdatesByID(t *testing.T) {
	d, a, c := setup(t, replyWith(`{"data":{"_id":"m1","email":"new@example.com","logo":"L"}}`))
	ctl := NewMaster(c, a)

	m := validMaster()
	m.ID = "m1"
	m.Logo = "data:image/png;base64,AAAA"
	ctl.Load(querycache.Entry{Data: &m})
	require.Equal(t, StateViewing, ctl.State())

	require.Error(t, ctl.Edit(func(m *models.Master) { m.Email = "x" }), "fields are read-only while viewing")
	require.NoError(t, ctl.BeginEdit())
	assert.True(t, ctl.Editable())
	require.NoError(t, ctl.Edit(func(m *models.Master) { m.Email = "new@example.com" }))

	rec, err := ctl.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", rec.Email)

	calls := d.all()
	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodPut, calls[0].method)
	assert.Equal(t, "/master/m1", calls[0].path)
	assert.Equal(t, m.Logo, calls[0].body.(models.Master).Logo)

	loaded, ok := ctl.Record()
	require.True(t, ok)
	assert.Equal(t, "new@example.com", loaded.Email)
}

func TestSubmit_FailureKeepsStateAndDraft(t *testing.T) {
	fail := &httpclient.HTTPStatusError{StatusCode: http.StatusBadRequest, Message: "bad review"}
	_, a, c := setup(t, func(string, string) (string, error) { return "", fail })
	ctl := NewReview(c, a)

	_, err := c.Get(context.Background(), keys.Reviews, func(context.Context) (any, error) { return []models.Review{}, nil })
	require.NoError(t, err)

	require.NoError(t, ctl.BeginCreate())
	require.NoError(t, ctl.Edit(func(r *models.Review) {
		r.Name, r.Work, r.Message = "Ann", "Buyer", "Great"
	}))

	_, err = ctl.Submit(context.Background())
	require.ErrorIs(t, err, fail)
	assert.Equal(t, "bad review", httpclient.UserMessage(err))
	assert.Equal(t, StateCreating, ctl.State())
	assert.Equal(t, "Ann", ctl.Draft().Value.Name)

	e, _ := c.Peek(keys.Reviews)
	assert.False(t, e.Stale)
}

func TestLoad_DoesNotOverwriteDraft(t *testing.T) {
	_, a, c := setup(t, nil)
	ctl := NewHero(c, a)

	ctl.Load(querycache.Entry{Data: &models.Hero{ID: "h1", Title: "Old"}})
	require.NoError(t, ctl.BeginEdit())
	require.NoError(t, ctl.Edit(func(h *models.Hero) { h.Title = "Draft" }))

	ctl.Load(querycache.Entry{Data: &models.Hero{ID: "h1", Title: "Refetched"}})
	assert.Equal(t, StateEditing, ctl.State())
	assert.Equal(t, "Draft", ctl.Draft().Value.Title)

	ctl.Cancel()
	assert.Equal(t, StateViewing, ctl.State())
	rec, _ := ctl.Record()
	assert.Equal(t, "Refetched", rec.Title)
}

func TestTransitions(t *testing.T) {
	_, a, c := setup(t, nil)
	ctl := NewAbout(c, a)

	assert.ErrorIs(t, ctl.BeginEdit(), common.ErrInvalidTransition)
	_, err := ctl.Submit(context.Background())
	assert.ErrorIs(t, err, common.ErrInvalidTransition)
	assert.ErrorIs(t, ctl.SetFiles("image"), common.ErrInvalidTransition)

	require.NoError(t, ctl.BeginCreate())
	assert.ErrorIs(t, ctl.BeginCreate(), common.ErrInvalidTransition)
	ctl.Cancel()
	assert.Equal(t, StateEmpty, ctl.State())

	ctl.Load(querycache.Entry{Data: models.About{ID: "a1", Description: "x", Image: "i"}})
	assert.Equal(t, StateViewing, ctl.State())
	ctl.Load(querycache.Entry{})
	assert.Equal(t, StateEmpty, ctl.State())

	users := NewUserEdit(c, a)
	assert.ErrorIs(t, users.BeginCreate(), common.ErrInvalidTransition)
}

func TestBeginEdit_CopiesRecord(t *testing.T) {
	_, a, c := setup(t, nil)
	ctl := NewMaster(c, a)

	m := validMaster()
	m.ID = "m1"
	ctl.LoadRecord(&m)
	require.NoError(t, ctl.BeginEdit())
	require.NoError(t, ctl.Edit(func(v *models.Master) { v.Phone[0] = "changed" }))

	rec, _ := ctl.Record()
	assert.Equal(t, "+1 555", rec.Phone[0])
}

func TestGallery_AppendsBareImages(t *testing.T) {
	d, a, c := setup(t, replyWith(`{"data":{"_id":"g1","images":["OLD","NEW"]}}`))
	ctl := NewGallery(c, a.PaymentList)

	ctl.LoadRecord(&models.Gallery{ID: "g1", Images: []string{"OLD"}})
	require.NoError(t, ctl.BeginEdit())
	require.NoError(t, ctl.SetFiles("images", imagesrc.Bytes{FileName: "a.png", Type: "image/png", Data: []byte("hi")}))

	_, err := ctl.Submit(context.Background())
	require.NoError(t, err)

	calls := d.all()
	require.Len(t, calls, 1)
	assert.Equal(t, "/paymentlist/g1", calls[0].path)

	raw, err := json.Marshal(calls[0].body)
	require.NoError(t, err)
	var sent struct{ Images []string }
	require.NoError(t, json.Unmarshal(raw, &sent))
	assert.Equal(t, []string{"OLD", base64.StdEncoding.EncodeToString([]byte("hi"))}, sent.Images)
}

func TestGallery_RequiresImages(t *testing.T) {
	d, a, c := setup(t, nil)
	ctl := NewGallery(c, a.AssociateDevelopers)

	require.NoError(t, ctl.BeginCreate())
	_, err := ctl.Submit(context.Background())
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.Empty(t, d.all())
}

func TestGallery_RemoveImageAt(t *testing.T) {
	d, a, c := setup(t, replyWith(`{"data":{"_id":"g1","images":["A","C"]}}`))
	ctl := NewGallery(c, a.AssociateDevelopers)

	_, err := ctl.RemoveImageAt(context.Background(), 0)
	assert.ErrorIs(t, err, common.ErrValidation)

	ctl.LoadRecord(&models.Gallery{ID: "g1", Images: []string{"A", "B", "C"}})
	_, err = ctl.RemoveImageAt(context.Background(), 3)
	assert.ErrorIs(t, err, common.ErrValidation)

	out, err := ctl.RemoveImageAt(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C"}, out.Images)

	calls := d.all()
	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodPut, calls[0].method)
	assert.Equal(t, "/associatedeveloper/g1/1", calls[0].path)
}

func TestGallery_RemoveImageAt_EmptyReply(t *testing.T) {
	_, a, c := setup(t, nil)
	ctl := NewGallery(c, a.PaymentList)

	ctl.LoadRecord(&models.Gallery{ID: "g1", Images: []string{"A", "B", "C"}})
	out, err := ctl.RemoveImageAt(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, out.Images)
}

func TestUserCreate_RequiredFields(t *testing.T) {
	d, a, c := setup(t, nil)
	ctl := NewUserCreate(c, a)

	require.NoError(t, ctl.BeginCreate())
	assert.Equal(t, "user", ctl.Draft().Value.Role)
	require.NoError(t, ctl.Edit(func(u *models.User) { u.Name = "Bob" }))

	_, err := ctl.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Please fill all required fields.", err.Error())
	assert.Empty(t, d.all())
}

func TestUserEdit_RejectsBadImage(t *testing.T) {
	d, a, c := setup(t, nil)
	ctl := NewUserEdit(c, a)

	ctl.LoadRecord(&models.User{ID: "u1", Name: "Bob", Email: "b@x", Role: "admin", Status: "active"})
	require.NoError(t, ctl.BeginEdit())
	require.NoError(t, ctl.SetFiles("profileImage", imagesrc.Bytes{FileName: "a.bmp", Type: "image/bmp", Data: []byte{1}}))

	_, err := ctl.Submit(context.Background())
	assert.EqualError(t, err, "Only JPG, PNG, and GIF images are allowed.")
	assert.Empty(t, d.all())
}

func TestValidateProfileImage(t *testing.T) {
	tests := []struct {
		name    string
		src     imagesrc.Bytes
		wantErr string
	}{
		{"png", imagesrc.Bytes{Type: "image/png", Data: []byte{1}}, ""},
		{"jpeg by name", imagesrc.Bytes{FileName: "me.jpg", Data: []byte{1}}, ""},
		{"gif", imagesrc.Bytes{Type: "image/gif", Data: []byte{1}}, ""},
		{"webp", imagesrc.Bytes{Type: "image/webp", Data: []byte{1}}, "Only JPG, PNG, and GIF images are allowed."},
		{"too big", imagesrc.Bytes{Type: "image/png", Data: make([]byte, MaxProfileImageSize)}, "Image size must be less than 2MB."},
		{"just under", imagesrc.Bytes{Type: "image/png", Data: make([]byte, MaxProfileImageSize-1)}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProfileImage(tt.src)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestUserEdit_InvalidatesUserKeys(t *testing.T) {
	_, a, c := setup(t, replyWith(`{"data":{"_id":"u1","name":"Bobby"}}`))
	ctl := NewUserEdit(c, a)

	for _, k := range []querycache.Key{keys.Users, keys.User("u1"), keys.UsersCount} {
		_, err := c.Get(context.Background(), k, func(context.Context) (any, error) { return 1, nil })
		require.NoError(t, err)
	}

	ctl.LoadRecord(&models.User{ID: "u1", Name: "Bob", Email: "b@x", Role: "admin", Status: "active"})
	require.NoError(t, ctl.BeginEdit())
	_, err := ctl.Submit(context.Background())
	require.NoError(t, err)

	for _, k := range []querycache.Key{keys.Users, keys.User("u1"), keys.UsersCount} {
		e, ok := c.Peek(k)
		require.True(t, ok)
		assert.True(t, e.Stale, k.String())
	}
}

func TestSubmit_EncodingErrorSkipsRequest(t *testing.T) {
	d, a, c := setup(t, nil)
	ctl := NewReview(c, a)

	require.NoError(t, ctl.BeginCreate())
	require.NoError(t, ctl.Edit(func(r *models.Review) { r.Name, r.Work, r.Message = "a", "b", "c" }))
	require.NoError(t, ctl.SetFiles("image", imagesrc.File{Path: "/does/not/exist.png"}))

	_, err := ctl.Submit(context.Background())
	require.Error(t, err)
	assert.Empty(t, d.all())
	assert.Equal(t, StateCreating, ctl.State())
	assert.False(t, errors.Is(err, common.ErrValidation))
}
