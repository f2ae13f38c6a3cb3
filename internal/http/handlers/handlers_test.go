package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"promptlab/internal/domain"
	"promptlab/internal/middleware"
	"promptlab/internal/providers/together"
	"promptlab/internal/relay"
)

type fakeAI struct {
	key        bool
	idea       string
	image      domain.ImageReference
	err        error
	imageCalls int
	locale     string
}

func (f *fakeAI) HasCredentials() bool { return f.key }

func (f *fakeAI) SuggestIdea(_ context.Context, locale string) (string, error) {
	f.locale = locale
	return f.idea, f.err
}

func (f *fakeAI) GenerateImage(_ context.Context, _ string) (domain.ImageReference, error) {
	f.imageCalls++
	return f.image, f.err
}

func newTestApp() *App {
	return &App{
		Logger:     zerolog.Nop(),
		Relay:      relay.NewFetcher(relay.Options{}),
		ImageCache: cache.New(time.Minute, time.Minute),
	}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	decodeBody(t, rec, &body)
	return body["error"]
}

func TestImageProxyRejectsNonGet(t *testing.T) {
	app := newTestApp()
	req := httptest.NewRequest(http.MethodPost, "/api/image-proxy?url=https://img.example.com/a.png", nil)
	rec := httptest.NewRecorder()
	app.ImageProxy(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("code = %d, want 405", rec.Code)
	}
	if got := errorBody(t, rec); got != "Método não permitido." {
		t.Fatalf("error = %q, want %q", got, "Método não permitido.")
	}
}

func TestImageProxyURLValidation(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{name: "missing", query: ""},
		{name: "empty", query: "?url="},
		{name: "repeated", query: "?url=https://a.example/x&url=https://b.example/y"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp()
			rec := httptest.NewRecorder()
			app.ImageProxy(rec, httptest.NewRequest(http.MethodGet, "/api/image-proxy"+tc.query, nil))
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("code = %d, want 400", rec.Code)
			}
			if got := errorBody(t, rec); got != "URL inválida." {
				t.Fatalf("error = %q, want %q", got, "URL inválida.")
			}
		})
	}
}

func TestImageProxyPropagatesUpstreamStatus(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer upstream.Close()

	app := newTestApp()
	rec := httptest.NewRecorder()
	app.ImageProxy(rec, httptest.NewRequest(http.MethodGet, "/api/image-proxy?url="+url.QueryEscape(upstream.URL+"/missing.png"), nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("code = %d, want 404", rec.Code)
	}
	if got := errorBody(t, rec); got != "Falha ao buscar a imagem." {
		t.Fatalf("error = %q, want %q", got, "Falha ao buscar a imagem.")
	}
}

func TestImageProxyNotModifiedHasNoBody(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotModified)
	}))
	defer upstream.Close()

	app := newTestApp()
	rec := httptest.NewRecorder()
	app.ImageProxy(rec, httptest.NewRequest(http.MethodGet, "/api/image-proxy?url="+url.QueryEscape(upstream.URL+"/a.png"), nil))
	if rec.Code != http.StatusNotModified {
		t.Fatalf("code = %d, want 304", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("304 carried a body: %q", rec.Body.String())
	}
}

func TestImageProxyPassesBytesThrough(t *testing.T) {
	payload := []byte{0xff, 0xd8, 0xff, 0xdb, 0x01, 0x02}
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write(payload)
	}))
	defer upstream.Close()

	app := newTestApp()
	rec := httptest.NewRecorder()
	app.ImageProxy(rec, httptest.NewRequest(http.MethodGet, "/api/image-proxy?url="+url.QueryEscape(upstream.URL+"/a.jpg"), nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "image/jpeg" {
		t.Fatalf("Content-Type = %q, want image/jpeg", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("Access-Control-Allow-Origin = %q, want *", got)
	}
	if !bytes.Equal(rec.Body.Bytes(), payload) {
		t.Fatalf("body = %v, want %v", rec.Body.Bytes(), payload)
	}
}

func TestImageProxyTransportFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	target := upstream.URL + "/gone.png"
	upstream.Close()

	app := newTestApp()
	rec := httptest.NewRecorder()
	app.ImageProxy(rec, httptest.NewRequest(http.MethodGet, "/api/image-proxy?url="+url.QueryEscape(target), nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("code = %d, want 500", rec.Code)
	}
	if got := errorBody(t, rec); got != "Erro ao processar o proxy de imagem." {
		t.Fatalf("error = %q", got)
	}
}

func TestPaletteEndpoint(t *testing.T) {
	app := newTestApp()
	rec := httptest.NewRecorder()
	body := strings.NewReader(`{"accent":"#7c3aed","paletteMode":"Triádica"}`)
	app.Palette(rec, httptest.NewRequest(http.MethodPost, "/api/palette", body))
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200 (%s)", rec.Code, rec.Body.String())
	}
	var resp paletteResponse
	decodeBody(t, rec, &resp)
	want := []string{"#7c3aed", "#ed7c3a", "#3aed7c"}
	if strings.Join(resp.Palette, ",") != strings.Join(want, ",") {
		t.Fatalf("palette = %v, want %v", resp.Palette, want)
	}
	if resp.Mode != "Triádica" {
		t.Fatalf("mode = %q, want Triádica", resp.Mode)
	}
	if resp.Hue != 262 {
		t.Fatalf("hueDegrees = %d, want 262", resp.Hue)
	}

	rec = httptest.NewRecorder()
	app.Palette(rec, httptest.NewRequest(http.MethodPost, "/api/palette", strings.NewReader(`{"accent":"#12"}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad hex code = %d, want 400", rec.Code)
	}
}

func TestPaletteEndpointUsesDefaults(t *testing.T) {
	app := newTestApp()
	rec := httptest.NewRecorder()
	app.Palette(rec, httptest.NewRequest(http.MethodPost, "/api/palette", http.NoBody))
	var resp paletteResponse
	decodeBody(t, rec, &resp)
	if resp.Accent != "#7c3aed" || len(resp.Palette) != 3 {
		t.Fatalf("default palette = %+v", resp)
	}
}

func TestPaletteWheel(t *testing.T) {
	app := newTestApp()
	rec := httptest.NewRecorder()
	app.PaletteWheel(rec, httptest.NewRequest(http.MethodGet, "/api/palette/wheel?accent=%23ff0000", nil))
	var resp struct {
		Stops    []map[string]any `json:"stops"`
		Gradient string           `json:"gradient"`
		KnobY    *float64         `json:"knobY"`
	}
	decodeBody(t, rec, &resp)
	if len(resp.Stops) != 12 || !strings.HasPrefix(resp.Gradient, "conic-gradient(#e14747 0%") {
		t.Fatalf("unexpected wheel: %d stops, gradient %q", len(resp.Stops), resp.Gradient)
	}
	if resp.KnobY == nil || *resp.KnobY > -67.9 {
		t.Fatalf("knobY = %v, want -68", resp.KnobY)
	}
}

func TestPaletteWheelPick(t *testing.T) {
	app := newTestApp()
	tests := []struct {
		query    string
		wantCode int
		want     string
	}{
		{query: "x=0&y=-68", wantCode: http.StatusOK, want: "#e14747"},
		{query: "x=0&y=68", wantCode: http.StatusOK, want: "#47e1e1"},
		{query: "x=0&y=0", wantCode: http.StatusBadRequest},
		{query: "x=abc&y=1", wantCode: http.StatusBadRequest},
		{query: "x=10", wantCode: http.StatusBadRequest},
	}
	for _, tc := range tests {
		t.Run(tc.query, func(t *testing.T) {
			rec := httptest.NewRecorder()
			app.PaletteWheel(rec, httptest.NewRequest(http.MethodGet, "/api/palette/wheel?"+tc.query, nil))
			if rec.Code != tc.wantCode {
				t.Fatalf("code = %d, want %d (%s)", rec.Code, tc.wantCode, rec.Body.String())
			}
			if tc.wantCode != http.StatusOK {
				return
			}
			var resp wheelResponse
			decodeBody(t, rec, &resp)
			if resp.Picked != tc.want {
				t.Fatalf("picked = %q, want %q", resp.Picked, tc.want)
			}
		})
	}
}

func TestPromptEndpointInvalidAccent(t *testing.T) {
	app := newTestApp()
	rec := httptest.NewRecorder()
	app.Prompt(rec, httptest.NewRequest(http.MethodPost, "/api/prompt", strings.NewReader(`{"accent":"#12345"}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", rec.Code)
	}
	if got := errorBody(t, rec); got != msgInvalidAccent {
		t.Fatalf("error = %q, want %q", got, msgInvalidAccent)
	}
}

func TestPromptEndpoint(t *testing.T) {
	app := newTestApp()
	payload := `{"selection":{"subject":"A fox","shotType":"Close-up","lighting":"Golden hour","aspectRatio":"16:9"},"accent":"#7c3aed","paletteMode":"Complementar"}`
	rec := httptest.NewRecorder()
	app.Prompt(rec, httptest.NewRequest(http.MethodPost, "/api/prompt", strings.NewReader(payload)))
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d (%s)", rec.Code, rec.Body.String())
	}
	var resp compositionResponse
	decodeBody(t, rec, &resp)
	want := "A fox — Close-up, colors #7c3aed, #abed3a — Golden hour, ar 16:9"
	if resp.Prompt != want {
		t.Fatalf("prompt = %q, want %q", resp.Prompt, want)
	}
}

func TestPromptStrictRejectsUnknownOption(t *testing.T) {
	app := newTestApp()
	payload := `{"selection":{"shotType":"Sideways dutch wobble"},"strict":true}`
	rec := httptest.NewRecorder()
	app.Prompt(rec, httptest.NewRequest(http.MethodPost, "/api/prompt", strings.NewReader(payload)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", rec.Code)
	}
	if !strings.Contains(errorBody(t, rec), "Sideways dutch wobble") {
		t.Fatalf("error does not name the field value: %s", rec.Body.String())
	}
}

func TestIdeaSubject(t *testing.T) {
	app := newTestApp()
	rec := httptest.NewRecorder()
	app.IdeaSubject(rec, httptest.NewRequest(http.MethodPost, "/api/ideas/subject", strings.NewReader(`{"idea":"  uma raposa lendo mapas, numa estação"}`)))
	var resp ideaResponse
	decodeBody(t, rec, &resp)
	if resp.Subject != "Uma raposa lendo mapas" {
		t.Fatalf("subject = %q", resp.Subject)
	}
}

func TestIdeaGenerate(t *testing.T) {
	ai := &fakeAI{key: true, idea: "astronauta regando plantas; em Marte"}
	app := newTestApp()
	app.AI = ai

	req := httptest.NewRequest(http.MethodPost, "/api/ideas/generate", nil)
	req = req.WithContext(context.WithValue(req.Context(), middleware.LocaleKey, "en"))
	rec := httptest.NewRecorder()
	app.IdeaGenerate(rec, req)
	var resp ideaResponse
	decodeBody(t, rec, &resp)
	if resp.Subject != "Astronauta regando plantas" || resp.Idea != ai.idea {
		t.Fatalf("resp = %+v", resp)
	}
	if ai.locale != "en" {
		t.Fatalf("locale = %q, want en", ai.locale)
	}
}

func TestIdeaGenerateErrors(t *testing.T) {
	tests := []struct {
		name     string
		ai       *fakeAI
		wantCode int
		wantMsg  string
	}{
		{name: "no key", ai: &fakeAI{}, wantCode: http.StatusServiceUnavailable, wantMsg: "Defina TOGETHER_API_KEY no ambiente para gerar textos."},
		{name: "api message", ai: &fakeAI{key: true, err: &together.APIError{Status: 401, Message: "Invalid API key"}}, wantCode: http.StatusBadGateway, wantMsg: "Invalid API key"},
		{name: "empty", ai: &fakeAI{key: true, err: together.ErrEmptyResponse}, wantCode: http.StatusBadGateway, wantMsg: "Resposta da IA não trouxe um texto utilizável."},
		{name: "transport", ai: &fakeAI{key: true, err: errors.New("dial tcp: refused")}, wantCode: http.StatusBadGateway, wantMsg: "Falha ao gerar texto. Tente novamente."},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp()
			app.AI = tc.ai
			rec := httptest.NewRecorder()
			app.IdeaGenerate(rec, httptest.NewRequest(http.MethodPost, "/api/ideas/generate", nil))
			if rec.Code != tc.wantCode {
				t.Fatalf("code = %d, want %d", rec.Code, tc.wantCode)
			}
			if got := errorBody(t, rec); got != tc.wantMsg {
				t.Fatalf("error = %q, want %q", got, tc.wantMsg)
			}
		})
	}
}

func TestImagesGenerateCachesByPrompt(t *testing.T) {
	ai := &fakeAI{key: true, image: domain.NewImageReference("aGVsbG8=")}
	app := newTestApp()
	app.AI = ai

	for i, wantCached := range []bool{false, true} {
		rec := httptest.NewRecorder()
		app.ImagesGenerate(rec, httptest.NewRequest(http.MethodPost, "/api/images/generate", strings.NewReader(`{"prompt":"A fox — neon"}`)))
		if rec.Code != http.StatusOK {
			t.Fatalf("call %d code = %d (%s)", i, rec.Code, rec.Body.String())
		}
		var resp imageGenerateResponse
		decodeBody(t, rec, &resp)
		if resp.Cached != wantCached {
			t.Fatalf("call %d cached = %v, want %v", i, resp.Cached, wantCached)
		}
		if resp.Image.URL != "data:image/png;base64,aGVsbG8=" {
			t.Fatalf("image url = %q", resp.Image.URL)
		}
	}
	if ai.imageCalls != 1 {
		t.Fatalf("provider calls = %d, want 1", ai.imageCalls)
	}
}

func TestImagesGenerateComposesPrompt(t *testing.T) {
	app := newTestApp()
	app.AI = &fakeAI{key: true, image: domain.ImageReference{URL: "https://cdn.example.com/fox.png"}}
	rec := httptest.NewRecorder()
	payload := `{"selection":{"subject":"A fox"},"accent":"#ff0000","paletteMode":"Complementar"}`
	app.ImagesGenerate(rec, httptest.NewRequest(http.MethodPost, "/api/images/generate", strings.NewReader(payload)))
	var resp imageGenerateResponse
	decodeBody(t, rec, &resp)
	if resp.Prompt != "A fox — colors #ff0000, #00ffff" {
		t.Fatalf("prompt = %q", resp.Prompt)
	}
}

func TestImagesGenerateWithoutKey(t *testing.T) {
	app := newTestApp()
	app.AI = &fakeAI{}
	rec := httptest.NewRecorder()
	app.ImagesGenerate(rec, httptest.NewRequest(http.MethodPost, "/api/images/generate", strings.NewReader(`{"prompt":"x"}`)))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("code = %d, want 503", rec.Code)
	}
}

func TestCatalogList(t *testing.T) {
	app := newTestApp()
	rec := httptest.NewRecorder()
	app.CatalogList(rec, httptest.NewRequest(http.MethodGet, "/api/catalog", nil))
	var resp struct {
		PaletteModes []string `json:"paletteModes"`
		Defaults     struct {
			Accent string `json:"accent"`
		} `json:"defaults"`
	}
	decodeBody(t, rec, &resp)
	if len(resp.PaletteModes) != 3 || resp.Defaults.Accent != "#7c3aed" {
		t.Fatalf("catalog = %+v", resp)
	}
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestApp().Health(rec, httptest.NewRequest(http.MethodGet, "/v1/healthz", nil))
	var resp map[string]string
	decodeBody(t, rec, &resp)
	if resp["status"] != "ok" {
		t.Fatalf("status = %q, want ok", resp["status"])
	}
}
