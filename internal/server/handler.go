package server

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ZaninAndrea/huffpack/internal/archive"
	"github.com/ZaninAndrea/huffpack/internal/catalog"
	"github.com/ZaninAndrea/huffpack/internal/huffman"
	"github.com/ZaninAndrea/huffpack/internal/pipeline"
	"github.com/ZaninAndrea/huffpack/internal/symbols"
	"github.com/ZaninAndrea/huffpack/pkg/containers"
	"github.com/ZaninAndrea/huffpack/pkg/logger"
)

const maxDegree = 256

type EncodeHandler struct {
	degree  int
	maxBody int64
	// catalog is optional
	catalog *catalog.Catalog
	log     logger.Logger
}

func NewEncodeHandler(degree int, maxBody int64, c *catalog.Catalog, log logger.Logger) *EncodeHandler {
	return &EncodeHandler{degree: degree, maxBody: maxBody, catalog: c, log: log}
}

type encodeResponse struct {
	Seq              uint64            `json:"seq,omitempty"`
	Mode             string            `json:"mode"`
	Layout           string            `json:"layout"`
	Degree           int               `json:"degree"`
	Symbols          int               `json:"symbols"`
	Bits             int               `json:"bits"`
	Bytes            int               `json:"bytes"`
	Skipped          int               `json:"skipped"`
	PartitionOffsets []int64           `json:"partition_offsets"`
	Codes            map[string]string `json:"codes"`
	Frequencies      map[string]int    `json:"frequencies"`
	// Data is base64 encoded in JSON.
	Data []byte `json:"data"`
}

type runResponse struct {
	Seq       uint64 `json:"seq"`
	Digest    string `json:"digest"`
	Mode      string `json:"mode"`
	Layout    string `json:"layout"`
	Degree    int    `json:"degree"`
	Symbols   int    `json:"symbols"`
	Distinct  int    `json:"distinct"`
	Bits      int    `json:"bits"`
	Bytes     int    `json:"bytes"`
	CreatedAt string `json:"created_at"`
}

func (h *EncodeHandler) Encode(c *gin.Context) {
	mode, err := symbols.ParseMode(c.Query("mode"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	layout, err := huffman.ParseLayout(c.Query("layout"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	degree := h.degree
	if raw := c.Query("degree"); raw != "" {
		degree, err = strconv.Atoi(raw)
		if err != nil || degree < 1 || degree > maxDegree {
			c.JSON(http.StatusBadRequest, gin.H{"error": "degree must be between 1 and " + strconv.Itoa(maxDegree)})
			return
		}
	}

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	var resp *encodeResponse
	var table []byte
	switch mode {
	case symbols.ModeWords:
		resp, table, err = encode(ctx, symbols.Words(string(body)), degree, layout,
			func(w string) string { return w }, symbols.FormatWord)
	default:
		resp, table, err = encode(ctx, symbols.Chars(string(body)), degree, layout,
			func(r rune) string { return string(r) }, symbols.FormatRune)
	}
	if err != nil {
		h.log.Errorf("Encode failed: %v", err)
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	resp.Mode = mode.String()

	if h.catalog != nil {
		resp.Seq, err = h.catalog.Put(ctx, catalog.Record{
			Digest:           catalog.Digest(body),
			Mode:             resp.Mode,
			Degree:           resp.Degree,
			Layout:           resp.Layout,
			Symbols:          resp.Symbols,
			Distinct:         len(resp.Codes),
			Skipped:          resp.Skipped,
			Bits:             resp.Bits,
			Bytes:            resp.Bytes,
			PartitionOffsets: resp.PartitionOffsets,
			CodeTable:        table,
		})
		if err != nil {
			h.log.Errorf("Failed to catalog run: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	h.log.Infof("Encoded %d symbols into %d bits", resp.Symbols, resp.Bits)
	c.JSON(http.StatusOK, resp)
}

func (h *EncodeHandler) ListRuns(c *gin.Context) {
	if h.catalog == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "run catalog is disabled"})
		return
	}

	records, err := containers.Collect(h.catalog.List(c.Request.Context()))
	if err != nil {
		h.log.Errorf("Failed to list runs: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	runs := make([]runResponse, 0, len(records))
	for _, rec := range records {
		runs = append(runs, runResponse{
			Seq:       rec.Seq,
			Digest:    strconv.FormatUint(rec.Digest, 16),
			Mode:      rec.Mode,
			Layout:    rec.Layout,
			Degree:    rec.Degree,
			Symbols:   rec.Symbols,
			Distinct:  rec.Distinct,
			Bits:      rec.Bits,
			Bytes:     rec.Bytes,
			CreatedAt: rec.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, runs)
}

func encode[S comparable](
	ctx context.Context,
	input []S,
	degree int,
	layout huffman.Layout,
	key func(S) string,
	format func(S) string,
) (*encodeResponse, []byte, error) {
	res, err := pipeline.Process(ctx, input, degree, huffman.WithLayout(layout))
	if err != nil {
		return nil, nil, err
	}

	var table bytes.Buffer
	if err := archive.WriteCodeTable(&table, res.Codes, format); err != nil {
		return nil, nil, err
	}

	resp := &encodeResponse{
		Layout:           layout.String(),
		Degree:           degree,
		Symbols:          len(input),
		Bits:             res.Encoded.Bits,
		Bytes:            len(res.Encoded.Data),
		Skipped:          res.Encoded.Skipped,
		PartitionOffsets: res.Encoded.PartitionOffsets(),
		Codes:            make(map[string]string, len(res.Codes)),
		Frequencies:      make(map[string]int, res.Frequencies.Len()),
		Data:             res.Encoded.Data,
	}
	for sym, code := range res.Codes {
		resp.Codes[key(sym)] = string(code)
	}
	for sym, n := range res.Frequencies.All() {
		resp.Frequencies[key(sym)] = n
	}
	return resp, table.Bytes(), nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, huffman.ErrEmptyInput), errors.Is(err, huffman.ErrDegenerateTree):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
