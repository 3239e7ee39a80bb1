package webutils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestWriteJson(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJson(w, map[string]int{"draws": 2})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"draws": 2}`, w.Body.String())

	w = httptest.NewRecorder()
	WriteJson(w, func() {})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"error"`)
}

func TestWriteErrorCode(t *testing.T) {
	w := httptest.NewRecorder()
	WriteErrorCode(w, http.StatusNotFound, errors.New("no such node"))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error": "no such node"}`, w.Body.String())
}

func TestWriteFile(t *testing.T) {
	w := httptest.NewRecorder()
	WriteFile(w, strings.NewReader("payload"), "scene.txt")
	assert.Equal(t, `attachment; filename="scene.txt"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "payload", w.Body.String())
}
