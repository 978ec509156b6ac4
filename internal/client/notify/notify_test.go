package notify

import (
	"bytes"
	"errors"
	"testing"

	"github.com/dmitrijs2005/homepoint/internal/client/httpclient"
	"github.com/stretchr/testify/assert"
)

func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	c.Success("Review created")
	c.Error("not found")

	assert.Equal(t, "✔ Review created\n✖ not found\n", buf.String())
}

func TestFailure(t *testing.T) {
	r := &Recorder{}

	Failure(r, "Update failed", &httpclient.HTTPStatusError{StatusCode: 404, Message: "not found"})
	Failure(r, "", errors.New("plain"))

	assert.Equal(t, []Message{
		{Text: "Update failed: not found"},
		{Text: "plain"},
	}, r.Messages())
}
