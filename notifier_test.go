package orderpipe_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/orderpipe/orderpipe"
)

type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestClient(f roundTripperFunc) *http.Client {
	return &http.Client{Transport: f}
}

func TestSlackNotifier(t *testing.T) {
	var sent []byte

	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			t.Fatal(err)
		}
		sent = body

		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(bytes.NewBufferString(`{"ok":true}`)),
			Header:     http.Header{},
		}, nil
	})

	n := &orderpipe.SlackNotifier{
		Channel:    "#channel",
		Token:      "token",
		IconEmoji:  ":emoji:",
		Username:   "username",
		HTTPClient: client,
	}

	r := &orderpipe.Result{Pipeline: "sales", Rows: 5}

	if err := n.Notify(context.Background(), r); err != nil {
		t.Errorf("unexpected slack.Notify error: %s", err)
	}

	if !bytes.Contains(sent, []byte("sales pipeline successfully loaded 5 rows")) {
		t.Errorf("unexpected message body: %s", sent)
	}
}

func TestSlackNotifier_APIError(t *testing.T) {
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(bytes.NewBufferString(`{"ok":false,"error":"channel_not_found"}`)),
			Header:     http.Header{},
		}, nil
	})

	n := &orderpipe.SlackNotifier{
		Channel:    "#channel",
		Token:      "token",
		HTTPClient: client,
	}

	r := &orderpipe.Result{Pipeline: "sales", Rows: 5}

	if err := n.Notify(context.Background(), r); err == nil {
		t.Error("expected error but no error occurred")
	}
}
