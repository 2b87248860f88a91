package shared

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_WritesServiceField(t *testing.T) {
	RegisterTestingT(t)

	core, logs := observer.New(zapcore.InfoLevel)
	logger := NewLoggerWithZap("todoweb", "", zap.New(core))

	LogError(context.Background(), logger, errors.New("backend down"), "Failed to load todos", zap.Int("status", 502))

	entries := logs.All()
	Expect(entries).To(HaveLen(1))
	Expect(entries[0].Message).To(Equal("Failed to load todos"))
	Expect(entries[0].Level).To(Equal(zapcore.ErrorLevel))
	Expect(entries[0].ContextMap()).To(HaveKeyWithValue("service", "todoweb"))
	Expect(entries[0].ContextMap()).To(HaveKeyWithValue("error", "backend down"))
}

func TestLogger_BuildLokiEntry(t *testing.T) {
	RegisterTestingT(t)
	logger := NewLoggerWithZap("todoweb", "http://loki:3100", zap.NewNop())

	now := time.Unix(1700000000, 0)
	entry := logger.buildLokiEntry(context.Background(), now, zapcore.InfoLevel, "HTTP Request", []zap.Field{
		zap.String("method", "GET"),
		zap.Int("status", 200),
	})

	Expect(entry.Streams).To(HaveLen(1))
	Expect(entry.Streams[0].Stream).To(HaveKeyWithValue("service", "todoweb"))
	Expect(entry.Streams[0].Stream).To(HaveKeyWithValue("level", "info"))
	Expect(entry.Streams[0].Values[0][0]).To(Equal("1700000000000000000"))

	var line map[string]any
	Expect(json.Unmarshal([]byte(entry.Streams[0].Values[0][1]), &line)).To(Succeed())
	Expect(line).To(HaveKeyWithValue("message", "HTTP Request"))
	Expect(line).To(HaveKeyWithValue("method", "GET"))
	Expect(line).To(HaveKeyWithValue("status", float64(200)))
}

func TestLogger_ShipsToLoki(t *testing.T) {
	RegisterTestingT(t)

	var mu sync.Mutex
	var paths []string
	var bodies [][]byte

	loki := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		paths = append(paths, r.URL.Path)
		bodies = append(bodies, body)
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer loki.Close()

	logger := NewLoggerWithZap("todoweb", loki.URL+"/", zap.NewNop())
	logger.InfoWithTrace(context.Background(), "Todo added")

	Eventually(func() int {
		mu.Lock()
		defer mu.Unlock()
		return len(bodies)
	}).Should(Equal(1))

	mu.Lock()
	defer mu.Unlock()
	Expect(paths[0]).To(Equal(lokiPushPath))

	var entry LokiLogEntry
	Expect(json.Unmarshal(bodies[0], &entry)).To(Succeed())
	Expect(entry.Streams[0].Values[0][1]).To(ContainSubstring("Todo added"))
}

func TestLogger_SendToLokiReportsFailureStatus(t *testing.T) {
	RegisterTestingT(t)

	loki := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer loki.Close()

	logger := NewLoggerWithZap("todoweb", loki.URL, zap.NewNop())
	err := logger.sendToLoki(logger.buildLokiEntry(context.Background(), time.Now(), zapcore.InfoLevel, "x", nil))

	Expect(err).To(MatchError(ContainSubstring("status 400")))
}
