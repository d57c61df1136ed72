// 文件路径: internal/api/handler/convert.go
// 模块说明: 转换接口。请求体可以是纯文本，也可以是 {"text": "..."} 形式的 JSON。
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/creamcroissant/subconv/internal/convert"
	"github.com/creamcroissant/subconv/internal/document"
	"github.com/creamcroissant/subconv/internal/protocol"
	"github.com/creamcroissant/subconv/internal/service"
)

// ConvertHandler serves the conversion endpoints.
type ConvertHandler struct {
	Conversion service.ConversionService
}

func NewConvertHandler(conversion service.ConversionService) *ConvertHandler {
	return &ConvertHandler{Conversion: conversion}
}

type convertRequest struct {
	Text string `json:"text"`
}

// OutcomeView is the JSON form of one line outcome.
type OutcomeView struct {
	Original string          `json:"original"`
	Success  bool            `json:"success"`
	Reason   string          `json:"reason,omitempty"`
	Proxy    *protocol.Proxy `json:"proxy,omitempty"`
}

// ConvertResponse is the body of POST /api/v1/convert.
type ConvertResponse struct {
	Status    string        `json:"status"`
	Message   string        `json:"message,omitempty"`
	Outcomes  []OutcomeView `json:"outcomes"`
	Document  string        `json:"document"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Key       string        `json:"key"`
	Cached    bool          `json:"cached"`
}

func newConvertResponse(res *service.ConversionResult) ConvertResponse {
	report := res.Report
	outcomes := make([]OutcomeView, 0, len(report.Outcomes))
	for _, o := range report.Outcomes {
		outcomes = append(outcomes, OutcomeView{
			Original: o.Original,
			Success:  o.Success(),
			Reason:   o.Reason(),
			Proxy:    o.Proxy,
		})
	}
	status := report.Status()
	return ConvertResponse{
		Status:    status.String(),
		Message:   status.Message(),
		Outcomes:  outcomes,
		Document:  report.Document,
		Succeeded: report.Succeeded(),
		Failed:    report.Failed(),
		Key:       res.Key,
		Cached:    res.Cached,
	}
}

// Convert handles POST /api/v1/convert. A processed batch is always 200,
// per-line failures included.
func (h *ConvertHandler) Convert(w http.ResponseWriter, r *http.Request) {
	const action = "convert"
	text, status, err := readInput(r)
	if err != nil {
		respondError(w, status, action, err)
		return
	}
	res, err := h.Conversion.Convert(r.Context(), text)
	if err != nil {
		respondError(w, http.StatusInternalServerError, action, err)
		return
	}
	respondJSON(w, http.StatusOK, newConvertResponse(res))
}

// YAML handles POST /api/v1/convert/yaml. It answers with the rendered
// document, or with a full profile when ?profile=1.
func (h *ConvertHandler) YAML(w http.ResponseWriter, r *http.Request) {
	const action = "convert.yaml"
	text, status, err := readInput(r)
	if err != nil {
		respondError(w, status, action, err)
		return
	}
	profile, _ := strconv.ParseBool(r.URL.Query().Get("profile"))

	res, err := h.Conversion.Convert(r.Context(), text)
	if err != nil {
		respondError(w, http.StatusInternalServerError, action, err)
		return
	}
	report := res.Report
	if st := report.Status(); st != convert.StatusOK {
		respondJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  st.Message(),
			"status": st.String(),
			"action": action,
		})
		return
	}

	payload, etag := report.Document, res.Key
	if profile {
		rendered, err := h.Conversion.RenderProfile(report)
		if err != nil {
			respondError(w, http.StatusInternalServerError, action, err)
			return
		}
		payload, etag = rendered, res.Key+"-profile"
	}

	etag = formatETag(etag)
	w.Header().Set("ETag", etag)
	w.Header().Set("X-Subconv-Succeeded", strconv.Itoa(report.Succeeded()))
	w.Header().Set("X-Subconv-Failed", strconv.Itoa(report.Failed()))
	if etagMatches(r, etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", document.ContentType)
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, payload)
}

// readInput returns the batch text and, on error, the status to answer
// with.
func readInput(r *http.Request) (string, int, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", http.StatusRequestEntityTooLarge, fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit)
		}
		return "", http.StatusBadRequest, fmt.Errorf("read request body: %w", err)
	}
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		return string(body), 0, nil
	}
	var req convertRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return "", http.StatusBadRequest, fmt.Errorf("decode request: %w", err)
	}
	return req.Text, 0, nil
}
