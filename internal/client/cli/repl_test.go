package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	args  [][]string
}

func (f *fakeExec) rec(name string, args []string) error {
	f.calls = append(f.calls, name)
	f.args = append(f.args, args)
	return nil
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Login(ctx context.Context) error {
	f.loggedIn = true
	return f.rec("login", nil)
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.loggedIn = false
	return f.rec("logout", nil)
}
func (f *fakeExec) Whoami(ctx context.Context) error         { return f.rec("whoami", nil) }
func (f *fakeExec) ForgotPassword(ctx context.Context) error { return f.rec("forgot", nil) }
func (f *fakeExec) Dashboard(ctx context.Context) error      { return f.rec("dashboard", nil) }
func (f *fakeExec) Domains(ctx context.Context, args []string) error {
	return f.rec("domains", args)
}
func (f *fakeExec) Projects(ctx context.Context, args []string) error {
	return f.rec("projects", args)
}
func (f *fakeExec) Zones(ctx context.Context) error { return f.rec("zones", nil) }
func (f *fakeExec) Reviews(ctx context.Context, args []string) error {
	return f.rec("reviews", args)
}
func (f *fakeExec) Users(ctx context.Context, args []string) error { return f.rec("users", args) }
func (f *fakeExec) Master(ctx context.Context, args []string) error {
	return f.rec("master", args)
}
func (f *fakeExec) Hero(ctx context.Context, args []string) error  { return f.rec("hero", args) }
func (f *fakeExec) About(ctx context.Context, args []string) error { return f.rec("about", args) }
func (f *fakeExec) PaymentList(ctx context.Context, args []string) error {
	return f.rec("paymentlist", args)
}
func (f *fakeExec) Developers(ctx context.Context, args []string) error {
	return f.rec("developers", args)
}

func (f *fakeExec) Amenity(ctx context.Context, args []string) error {
	return f.rec("amenity", args)
}

func capturePrint(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		parts := make([]string, len(a))
		for i, v := range a {
			parts[i], _ = v.(string)
		}
		lines = append(lines, strings.Join(parts, " "))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	capturePrint(t)

	input := strings.Join([]string{
		"help",
		"login",
		"help",
		"dashboard",
		"reviews edit 7",
		"paymentlist rmimg g1 2",
		"domains soon",
		"amenity add",
		"foobar",
		"logout",
		"exit",
	}, "\n")

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, rdr(input))

	assert.Equal(t, []string{"login", "dashboard", "reviews", "paymentlist", "domains", "amenity", "logout"}, exec.calls)
	assert.Equal(t, []string{"edit", "7"}, exec.args[2])
	assert.Equal(t, []string{"rmimg", "g1", "2"}, exec.args[3])
	assert.Equal(t, []string{"soon"}, exec.args[4])
	assert.Equal(t, []string{"add"}, exec.args[5])
}

func TestRunREPL_RequiresSession(t *testing.T) {
	lines := capturePrint(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "s" }, rdr("reviews\nnope\nquit\n"))

	assert.Empty(t, exec.calls)
	assert.Contains(t, *lines, "Please log in first")
	assert.Contains(t, *lines, "Unknown command: nope")
	assert.Contains(t, *lines, "Bye!")
}

func TestRunREPL_LastLineWithoutNewline(t *testing.T) {
	capturePrint(t)

	exec := &fakeExec{loggedIn: true}
	runREPL(context.Background(), exec, func() string { return "s" }, rdr("zones"))

	assert.Equal(t, []string{"zones"}, exec.calls)
}

func TestUsageError(t *testing.T) {
	assert.EqualError(t, usage("master [edit]"), "Usage: master [edit]")
}
