package nodes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestVideoNode_SynchronousResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"video":{"url":"https://cdn.example/v.mp4"}}`))
	}))
	defer srv.Close()

	node := NewVideoNode(newNodeClient(t, srv), zap.NewNop())
	out := node.Run(context.Background(), VideoInput{Prompt: "waves", Model: "sora-2"})

	assert.Empty(t, out.Error)
	assert.Equal(t, "https://cdn.example/v.mp4", out.URL)
}

func TestVideoNode_AsyncJobReturnsImmediatelyWithoutWait(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"vid_1","status":"queued"}`))
	}))
	defer srv.Close()

	node := NewVideoNode(newNodeClient(t, srv), zap.NewNop())
	out := node.Run(context.Background(), VideoInput{Prompt: "waves", Model: "sora-2"})

	assert.Empty(t, out.Error)
	assert.Empty(t, out.URL)
	assert.Contains(t, out.FullResponse, "vid_1")
}

func TestVideoNode_AsyncJobPolledWithWait(t *testing.T) {
	var polls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/videos/vid_1") {
			if polls.Add(1) < 2 {
				w.Write([]byte(`{"id":"vid_1","status":"in_progress"}`))
				return
			}
			w.Write([]byte(`{"id":"vid_1","status":"completed","video":{"url":"https://cdn.example/v.mp4"}}`))
			return
		}
		w.Write([]byte(`{"id":"vid_1","status":"queued"}`))
	}))
	defer srv.Close()

	node := NewVideoNode(newNodeClient(t, srv), zap.NewNop())
	node.pollInterval = time.Millisecond
	out := node.Run(context.Background(), VideoInput{Prompt: "waves", Model: "sora-2", Wait: true})

	assert.Empty(t, out.Error)
	assert.Equal(t, "https://cdn.example/v.mp4", out.URL)
}

func TestVideoNode_FailedJobFailsSoft(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/videos/vid_1") {
			w.Write([]byte(`{"id":"vid_1","status":"failed","error":{"message":"policy violation"}}`))
			return
		}
		w.Write([]byte(`{"id":"vid_1","status":"queued"}`))
	}))
	defer srv.Close()

	node := NewVideoNode(newNodeClient(t, srv), zap.NewNop())
	node.pollInterval = time.Millisecond
	out := node.Run(context.Background(), VideoInput{Prompt: "waves", Model: "sora-2", Wait: true})

	assert.Empty(t, out.URL)
	assert.Contains(t, out.Error, "policy violation")
}

func TestVideoNode_NoURLNoIDFailsSoft(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"weird"}`))
	}))
	defer srv.Close()

	node := NewVideoNode(newNodeClient(t, srv), zap.NewNop())
	out := node.Run(context.Background(), VideoInput{Prompt: "waves", Model: "sora-2"})

	assert.Contains(t, out.Error, "neither a video URL nor a job id")
}
