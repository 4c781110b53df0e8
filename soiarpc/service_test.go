package soiarpc_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/require"

	"github.com/gepheum/soia-go/soiarpc"
	"github.com/gepheum/soia-go/testtypes"
)

func newTestService(t *testing.T) *soiarpc.Service {
	t.Helper()
	s := soiarpc.NewService(logr.Discard())
	soiarpc.RegisterMethod(s, "Translate", 1, testtypes.PointSerializer, testtypes.PointSerializer,
		func(ctx context.Context, p testtypes.Point) (testtypes.Point, error) {
			return testtypes.Point{X: p.X + 1, Y: p.Y + 1}, nil
		})
	return s
}

func TestHandleRequestListsMethods(t *testing.T) {
	s := newTestService(t)

	result := s.HandleRequest(context.Background(), nil, false)
	require.Equal(t, 200, result.Status)
	require.Equal(t, "application/json", result.ContentType)

	var listing struct {
		Methods []struct {
			Name   string `json:"name"`
			Number int32  `json:"number"`
		} `json:"methods"`
	}
	require.NoError(t, json.Unmarshal(result.Body, &listing))
	require.Equal(t, []struct {
		Name   string `json:"name"`
		Number int32  `json:"number"`
	}{{Name: "Translate", Number: 1}}, listing.Methods)
}

func TestHandleRequestDebugPage(t *testing.T) {
	s := newTestService(t)

	result := s.HandleRequest(context.Background(), []byte("restudio"), false)
	require.Equal(t, 200, result.Status)
	require.Equal(t, "text/html; charset=utf-8", result.ContentType)
	require.Contains(t, string(result.Body), "Translate")
}

func TestHandleRequestJSONEnvelopeByName(t *testing.T) {
	s := newTestService(t)

	body := []byte(`{"method": "Translate", "request": {"x": 1, "y": 2}}`)
	result := s.HandleRequest(context.Background(), body, false)
	require.Equal(t, 200, result.Status)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(result.Body, &resp))
	require.EqualValues(t, 2, resp["x"])
	require.EqualValues(t, 3, resp["y"])
}

func TestHandleRequestJSONEnvelopeByNumber(t *testing.T) {
	s := newTestService(t)

	body := []byte(`{"method": 1, "request": {"x": 5, "y": 5}}`)
	result := s.HandleRequest(context.Background(), body, false)
	require.Equal(t, 200, result.Status)
}

func TestHandleRequestStringEnvelope(t *testing.T) {
	s := newTestService(t)

	body := []byte(`Translate:1:readable:{"x": 10, "y": 20}`)
	result := s.HandleRequest(context.Background(), body, false)
	require.Equal(t, 200, result.Status)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(result.Body, &resp))
	require.EqualValues(t, 11, resp["x"])
	require.EqualValues(t, 21, resp["y"])
}

func TestHandleRequestStringEnvelopeNameOnlyResolvesUniquely(t *testing.T) {
	s := newTestService(t)

	body := []byte(`Translate::readable:{"x": 0, "y": 0}`)
	result := s.HandleRequest(context.Background(), body, false)
	require.Equal(t, 200, result.Status)
}

func TestHandleRequestUnknownMethodIs400(t *testing.T) {
	s := newTestService(t)

	body := []byte(`{"method": "NoSuchMethod", "request": {}}`)
	result := s.HandleRequest(context.Background(), body, false)
	require.Equal(t, 400, result.Status)
}

func TestHandleRequestAmbiguousNameIs400(t *testing.T) {
	s := newTestService(t)
	soiarpc.RegisterMethod(s, "Translate", 2, testtypes.PointSerializer, testtypes.PointSerializer,
		func(ctx context.Context, p testtypes.Point) (testtypes.Point, error) { return p, nil })

	body := []byte(`Translate::readable:{"x": 0, "y": 0}`)
	result := s.HandleRequest(context.Background(), body, false)
	require.Equal(t, 400, result.Status)
}

func TestHandleRequestMalformedJSONIs400(t *testing.T) {
	s := newTestService(t)

	body := []byte(`{"method": "Translate", "request": {"x": "not a number", "y": 1}}`)
	result := s.HandleRequest(context.Background(), body, false)
	require.Equal(t, 400, result.Status)
}

func TestHandleRequestHandlerErrorIs500(t *testing.T) {
	s := soiarpc.NewService(logr.Discard())
	soiarpc.RegisterMethod(s, "Fail", 1, testtypes.PointSerializer, testtypes.PointSerializer,
		func(ctx context.Context, p testtypes.Point) (testtypes.Point, error) {
			return testtypes.Point{}, errBoom
		})

	body := []byte(`{"method": "Fail", "request": {"x": 0, "y": 0}}`)
	result := s.HandleRequest(context.Background(), body, false)
	require.Equal(t, 500, result.Status)
}

func TestRegisterMethodDuplicateNumberPanics(t *testing.T) {
	s := newTestService(t)
	require.Panics(t, func() {
		soiarpc.RegisterMethod(s, "AnotherName", 1, testtypes.PointSerializer, testtypes.PointSerializer,
			func(ctx context.Context, p testtypes.Point) (testtypes.Point, error) { return p, nil })
	})
}

var errBoom = errors.New("handler boom")
