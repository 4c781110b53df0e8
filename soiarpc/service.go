package soiarpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-logr/logr"

	soia "github.com/gepheum/soia-go"
)

// methodEntry is the type-erased registration record for one method: Req
// and Resp are closed over at RegisterMethod time and never appear in the
// entry's own signature, the same way descriptor.go's mapFn closes over a
// record's static type so later code can operate through an any boundary.
type methodEntry struct {
	name   string
	number int32
	invoke func(ctx context.Context, j any, keep bool) (any, error)
	toJSON func(resp any, flavor soia.Flavor) any
}

// Service holds a registry of RPC methods and dispatches request bodies to
// them (C9, §4.9). The zero value is not usable; construct with NewService.
type Service struct {
	log      logr.Logger
	byNumber map[int32]*methodEntry
	byName   map[string][]*methodEntry
	order    []*methodEntry
}

// NewService returns an empty Service. log receives one structured line per
// request (method, status, duration): at verbosity 1 when the request
// succeeds, at verbosity 0 when it ends with a status of 400 or more
// (routing, decoding and handler failures alike).
func NewService(log logr.Logger) *Service {
	return &Service{
		log:      log,
		byNumber: map[int32]*methodEntry{},
		byName:   map[string][]*methodEntry{},
	}
}

// RegisterMethod adds one (name, number, request/response serializer,
// handler) tuple to s. number must be unique across the service; violating
// that is a programmer error caught at registration time, per
// ErrDuplicateRegistration (§7's DuplicateRegistration kind).
func RegisterMethod[Req, Resp any](
	s *Service,
	name string,
	number int32,
	reqSer soia.Serializer[Req],
	respSer soia.Serializer[Resp],
	handler func(ctx context.Context, req Req) (Resp, error),
) {
	if _, exists := s.byNumber[number]; exists {
		panic(fmt.Errorf("%w: method number %d already registered", soia.ErrDuplicateRegistration, number))
	}
	entry := &methodEntry{name: name, number: number}
	entry.invoke = func(ctx context.Context, j any, keep bool) (any, error) {
		req, err := soia.FromJSONValue(reqSer, j, keep)
		if err != nil {
			return nil, err
		}
		return handler(ctx, req)
	}
	entry.toJSON = func(resp any, flavor soia.Flavor) any {
		typed, _ := resp.(Resp)
		return soia.ToJSONValue(respSer, typed, flavor)
	}
	s.byNumber[number] = entry
	s.byName[name] = append(s.byName[name], entry)
	s.order = append(s.order, entry)
}

// Result is what HandleRequest produces: an HTTP status, a Content-Type and
// a response body, ready to be written verbatim by any transport (net/http,
// a test harness, or something else entirely — HandleRequest itself never
// touches net/http).
type Result struct {
	Status      int
	ContentType string
	Body        []byte
}

func jsonResult(status int, v any) Result {
	body, err := json.Marshal(v)
	if err != nil {
		return Result{Status: 500, ContentType: "text/plain; charset=utf-8", Body: []byte(err.Error())}
	}
	return Result{Status: status, ContentType: "application/json", Body: body}
}

func errResult(status int, err error) Result {
	return Result{Status: status, ContentType: "text/plain; charset=utf-8", Body: []byte(err.Error())}
}

// HandleRequest dispatches body per §4.9/§6.3: an empty body or the literal
// "list" lists every registered method; "restudio"/"debug" returns a fixed
// debug page; a body starting with '{' or whitespace is a JSON envelope
// `{"method": string|int, "request": <json>}` (forced readable format);
// anything else is the colon-framed string envelope
// `name:number:format:data`. keepUnrecognizedValues is forwarded to the
// request decoder (§4.5/§4.6's unrecognizedPolicy).
func (s *Service) HandleRequest(ctx context.Context, body []byte, keepUnrecognizedValues bool) Result {
	start := time.Now()
	trimmed := strings.TrimSpace(string(body))

	var result Result
	var methodName string
	switch {
	case trimmed == "" || trimmed == "list":
		result = s.listMethods()
	case trimmed == "restudio" || trimmed == "debug":
		result = s.debugPage()
	case strings.HasPrefix(trimmed, "{") || (len(body) > 0 && isSpace(body[0])):
		methodName, result = s.handleJSONEnvelope(ctx, []byte(trimmed), keepUnrecognizedValues)
	default:
		methodName, result = s.handleStringEnvelope(ctx, trimmed, keepUnrecognizedValues)
	}

	if result.Status >= 400 {
		s.log.Info("rpc request failed", "method", methodName, "status", result.Status, "durationMs", time.Since(start).Milliseconds())
	} else {
		s.log.V(1).Info("rpc request handled", "method", methodName, "status", result.Status, "durationMs", time.Since(start).Milliseconds())
	}
	return result
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func (s *Service) listMethods() Result {
	type methodJSON struct {
		Name   string `json:"name"`
		Number int32  `json:"number"`
	}
	methods := make([]methodJSON, 0, len(s.order))
	for _, e := range s.order {
		methods = append(methods, methodJSON{Name: e.name, Number: e.number})
	}
	sort.Slice(methods, func(i, j int) bool { return methods[i].Number < methods[j].Number })
	return jsonResult(200, struct {
		Methods []methodJSON `json:"methods"`
	}{methods})
}

func (s *Service) debugPage() Result {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html><html><body><h1>soia service</h1><ul>")
	for _, e := range s.order {
		fmt.Fprintf(&b, "<li>%s (%d)</li>", e.name, e.number)
	}
	b.WriteString("</ul></body></html>")
	return Result{Status: 200, ContentType: "text/html; charset=utf-8", Body: []byte(b.String())}
}

func (s *Service) handleJSONEnvelope(ctx context.Context, body []byte, keep bool) (string, Result) {
	var envelope struct {
		Method json.RawMessage `json:"method"`
		Request any            `json:"request"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return "", errResult(400, fmt.Errorf("%w: %v", soia.ErrSchemaMismatch, err))
	}
	entry, name, err := s.resolveJSONMethod(envelope.Method)
	if err != nil {
		return name, errResult(400, err)
	}
	return s.invoke(ctx, entry, envelope.Request, soia.Readable, keep)
}

func (s *Service) resolveJSONMethod(raw json.RawMessage) (*methodEntry, string, error) {
	var asNumber int32
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		entry, ok := s.byNumber[asNumber]
		if !ok {
			return nil, strconv.Itoa(int(asNumber)), fmt.Errorf("%w: %d", ErrUnknownMethod, asNumber)
		}
		return entry, entry.name, nil
	}
	var asName string
	if err := json.Unmarshal(raw, &asName); err != nil {
		return nil, "", fmt.Errorf("%w: method must be a string or an integer", soia.ErrSchemaMismatch)
	}
	return s.resolveByName(asName)
}

func (s *Service) resolveByName(name string) (*methodEntry, string, error) {
	candidates := s.byName[name]
	switch len(candidates) {
	case 0:
		return nil, name, fmt.Errorf("%w: %q", ErrUnknownMethod, name)
	case 1:
		return candidates[0], name, nil
	default:
		return nil, name, fmt.Errorf("%w: %q", ErrAmbiguousMethod, name)
	}
}

// handleStringEnvelope parses "name:number:format:data", where name or
// number (but not both) may be empty provided the other resolves uniquely.
func (s *Service) handleStringEnvelope(ctx context.Context, body string, keep bool) (string, Result) {
	parts := strings.SplitN(body, ":", 4)
	if len(parts) != 4 {
		return "", errResult(400, fmt.Errorf("%w: expected name:number:format:data", soia.ErrSchemaMismatch))
	}
	name, numberStr, format, data := parts[0], parts[1], parts[2], parts[3]

	entry, resolvedName, err := s.resolveStringMethod(name, numberStr)
	if err != nil {
		return resolvedName, errResult(400, err)
	}

	flavor := soia.Dense
	switch format {
	case "", "dense":
		flavor = soia.Dense
	case "readable":
		flavor = soia.Readable
	default:
		return resolvedName, errResult(400, fmt.Errorf("%w: unknown format %q", soia.ErrSchemaMismatch, format))
	}

	var tree any
	if err := json.Unmarshal([]byte(data), &tree); err != nil {
		return resolvedName, errResult(400, fmt.Errorf("%w: %v", soia.ErrSchemaMismatch, err))
	}
	return s.invoke(ctx, entry, tree, flavor, keep)
}

func (s *Service) resolveStringMethod(name, numberStr string) (*methodEntry, string, error) {
	if numberStr != "" {
		number, err := strconv.ParseInt(numberStr, 10, 32)
		if err != nil {
			return nil, name, fmt.Errorf("%w: %q is not a valid method number", soia.ErrSchemaMismatch, numberStr)
		}
		entry, ok := s.byNumber[int32(number)]
		if !ok {
			return nil, numberStr, fmt.Errorf("%w: %d", ErrUnknownMethod, number)
		}
		if name != "" && entry.name != name {
			return nil, name, fmt.Errorf("%w: name %q does not match number %d", soia.ErrSchemaMismatch, name, number)
		}
		return entry, entry.name, nil
	}
	if name == "" {
		return nil, "", fmt.Errorf("%w: request names neither a method name nor a number", soia.ErrSchemaMismatch)
	}
	return s.resolveByName(name)
}

func (s *Service) invoke(ctx context.Context, entry *methodEntry, reqJSON any, flavor soia.Flavor, keep bool) (string, Result) {
	resp, err := entry.invoke(ctx, reqJSON, keep)
	if err != nil {
		switch {
		case errIsCodec(err):
			return entry.name, errResult(400, err)
		default:
			return entry.name, errResult(500, err)
		}
	}
	return entry.name, jsonResult(200, entry.toJSON(resp, flavor))
}

func errIsCodec(err error) bool {
	return errors.Is(err, soia.ErrMalformedWire) || errors.Is(err, soia.ErrSchemaMismatch)
}

// ServeHTTP adapts Service to net/http per §6.3: POST carries the request in
// its body; GET carries it URL-decoded in the query string. Unrecognized
// values are always preserved (keepUnrecognizedValues=true) since an HTTP
// handler has no caller to ask.
func (s *Service) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body []byte
	switch r.Method {
	case http.MethodPost:
		b, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		body = b
	case http.MethodGet:
		decoded, err := url.QueryUnescape(r.URL.RawQuery)
		if err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		body = []byte(decoded)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	result := s.HandleRequest(r.Context(), body, true)
	w.Header().Set("Content-Type", result.ContentType)
	w.WriteHeader(result.Status)
	w.Write(result.Body)
}
