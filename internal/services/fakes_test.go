package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/yoockh/talentscope/internal/models"
)

func nullLogger() *logrus.Logger {
	l, _ := test.NewNullLogger()
	return l
}

type fakeSearcher struct {
	mu      sync.Mutex
	results map[string][]models.SearchResultItem
	err     error
	calls   int
	last    models.SearchRequest
}

func (f *fakeSearcher) Search(_ context.Context, req models.SearchRequest) ([]models.SearchResultItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return f.results[req.Query], nil
}

func (f *fakeSearcher) lastRequest() models.SearchRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

func (f *fakeSearcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeFetcher struct {
	profiles map[string]map[string]any
	err      error
	calls    int
}

func (f *fakeFetcher) FetchProfile(_ context.Context, id string) (map[string]any, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.profiles[id], nil
}

type fakeProvider struct {
	reply  string
	chunks []string
	err    error
	got    []models.ChatRequest
}

func (f *fakeProvider) Complete(_ context.Context, req models.ChatRequest) (*models.ChatResponse, error) {
	f.got = append(f.got, req)
	if f.err != nil {
		return nil, f.err
	}
	return &models.ChatResponse{
		Model:   "test-model",
		Choices: []models.ChatChoice{{Message: models.ChatMessage{Role: "assistant", Content: f.reply}}},
	}, nil
}

func (f *fakeProvider) StreamAnswer(_ context.Context, req models.ChatRequest) (<-chan string, <-chan error) {
	f.got = append(f.got, req)
	out := make(chan string, len(f.chunks))
	errs := make(chan error, 1)
	for _, c := range f.chunks {
		out <- c
	}
	if f.err != nil {
		errs <- f.err
	}
	close(out)
	close(errs)
	return out, errs
}

func (f *fakeProvider) Close() error { return nil }

type fakeObjectStore struct {
	objects map[string]string
	signErr error
}

func (f *fakeObjectStore) Upload(_ context.Context, name, _ string, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if f.objects == nil {
		f.objects = map[string]string{}
	}
	f.objects[name] = string(b)
	return "gs://exports/" + name, nil
}

func (f *fakeObjectStore) SignedGetURL(_ context.Context, name string, ttl time.Duration) (string, error) {
	if f.signErr != nil {
		return "", f.signErr
	}
	return fmt.Sprintf("https://signed.example/%s?ttl=%d", strings.ReplaceAll(name, "/", "_"), int(ttl.Seconds())), nil
}
