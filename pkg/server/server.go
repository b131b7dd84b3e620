package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bastiangx/wordrack/internal/logger"
	"github.com/bastiangx/wordrack/internal/utils"
	"github.com/bastiangx/wordrack/pkg/anagram"
	"github.com/bastiangx/wordrack/pkg/config"
	"github.com/bastiangx/wordrack/pkg/dictionary"
	"github.com/charmbracelet/log"
	"github.com/samber/lo"
	"github.com/vmihailenco/msgpack/v5"
)

// maxDecodeFailures stops the loop on a reader that keeps failing.
const maxDecodeFailures = 32

// Server handles msgpack IPC for rack queries
type Server struct {
	finder     *anagram.Finder
	maxResults int
	runtime    *dictionary.RuntimeLoader
	dict       *dictionary.Dictionary
	reader     io.Reader
	writer     *bufio.Writer
	encoder    *msgpack.Encoder
	logger     *log.Logger
	requests   int
}

// Option configures a Server.
type Option func(*Server)

// WithIO replaces stdin and stdout.
func WithIO(r io.Reader, w io.Writer) Option {
	return func(s *Server) {
		s.reader = r
		s.writer = bufio.NewWriter(w)
	}
}

// WithRuntimeLoader enables set_size and get_options over a chunked dictionary.
func WithRuntimeLoader(rl *dictionary.RuntimeLoader) Option {
	return func(s *Server) {
		s.runtime = rl
	}
}

// WithDictionary reports a single-file dictionary in get_info.
func WithDictionary(d *dictionary.Dictionary) Option {
	return func(s *Server) {
		s.dict = d
	}
}

// NewServer creates a server over stdin/stdout
func NewServer(finder *anagram.Finder, cfg *config.Config, opts ...Option) *Server {
	s := &Server{
		finder:     finder,
		maxResults: cfg.Server.MaxResults,
		reader:     os.Stdin,
		writer:     bufio.NewWriter(os.Stdout),
		logger:     logger.New("server"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.encoder = msgpack.NewEncoder(s.writer)
	return s
}

// Start serves requests until the input ends. A clean EOF returns nil.
func (s *Server) Start() error {
	s.logger.Debug("Starting msgpack server")
	decoder := msgpack.NewDecoder(bufio.NewReader(s.reader))

	failures := 0
	for {
		var req request
		if err := decoder.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				s.logger.Debugf("Input closed after %d requests", s.requests)
				return nil
			}
			if errors.Is(err, io.ErrUnexpectedEOF) {
				return fmt.Errorf("truncated request: %w", err)
			}
			failures++
			if failures > maxDecodeFailures {
				return fmt.Errorf("giving up after %d unreadable requests: %w", failures, err)
			}
			s.logger.Warnf("Decoding request: %v", err)
			s.sendError("", fmt.Sprintf("invalid request: %v", err), CodeBadRequest)
			continue
		}
		failures = 0
		s.requests++
		s.handleRequest(req)
	}
}

func (s *Server) handleRequest(req request) {
	if req.Action != "" {
		s.handleDictionary(DictionaryRequest{
			ID:         req.ID,
			Action:     req.Action,
			ChunkCount: req.ChunkCount,
		})
		return
	}
	s.handleFind(FindRequest{
		ID:       req.ID,
		Rack:     req.Rack,
		Limit:    req.Limit,
		ByLength: req.ByLength,
	})
}

func (s *Server) handleFind(req FindRequest) {
	rack := utils.NormalizeRack(req.Rack)
	if rack == "" {
		s.sendError(req.ID, "missing 'r' parameter", CodeBadRequest)
		return
	}
	if marker := s.finder.Expander().Marker(); !utils.IsValidRack(rack, marker) {
		s.sendError(req.ID, fmt.Sprintf("not a rack: %q (letters and %c only)", rack, marker), CodeBadRequest)
		return
	}
	if req.Limit < 0 {
		s.sendError(req.ID, "limit must not be negative", CodeBadRequest)
		return
	}

	start := time.Now()
	words, err := s.finder.FindAll(rack)
	elapsed := time.Since(start)
	if err != nil {
		s.logger.Debugf("Find %q failed: %v", rack, err)
		s.sendError(req.ID, err.Error(), errorCode(err))
		return
	}

	count := len(words)
	if req.ByLength {
		anagram.SortByLength(words)
	}
	if limit := s.limit(req.Limit); limit > 0 && len(words) > limit {
		words = words[:limit]
	}

	s.logger.Debugf("Find %q: %d words in %s", rack, count, elapsed)
	s.sendResponse(FindResponse{
		ID:        req.ID,
		Words:     words,
		Count:     count,
		TimeTaken: elapsed.Microseconds(),
	})
}

// limit combines the request limit with server.max_results; 0 means unlimited.
func (s *Server) limit(requested int) int {
	switch {
	case requested == 0:
		return s.maxResults
	case s.maxResults == 0:
		return requested
	default:
		return min(requested, s.maxResults)
	}
}

func errorCode(err error) int {
	switch {
	case errors.Is(err, anagram.ErrTooManyWildcards):
		return CodeTooManyWildcards
	case errors.Is(err, anagram.ErrRackTooLong):
		return CodeBadRequest
	default:
		return CodeInternalServerError
	}
}

func (s *Server) handleDictionary(req DictionaryRequest) {
	resp := DictionaryResponse{ID: req.ID, Status: "ok"}

	switch req.Action {
	case "get_info":
		s.fillInfo(&resp)
	case "set_size":
		if s.runtime == nil {
			s.sendError(req.ID, "dictionary is not chunked", CodeBadRequest)
			return
		}
		if req.ChunkCount == nil {
			s.sendError(req.ID, "missing 'chunk_count' parameter", CodeBadRequest)
			return
		}
		if err := s.runtime.SetDictionarySize(*req.ChunkCount); err != nil {
			resp.Status = "error"
			resp.Error = err.Error()
			break
		}
		s.logger.Infof("Dictionary resized to %d chunks", *req.ChunkCount)
		s.fillInfo(&resp)
	case "get_options":
		if s.runtime == nil {
			s.sendError(req.ID, "dictionary is not chunked", CodeBadRequest)
			return
		}
		options, err := s.runtime.GetDictionarySizeOptions()
		if err != nil {
			s.sendError(req.ID, err.Error(), CodeInternalServerError)
			return
		}
		resp.Options = lo.Map(options, func(o dictionary.DictionarySizeOption, _ int) DictionarySizeOption {
			return DictionarySizeOption{
				ChunkCount: o.ChunkCount,
				KeyCount:   o.KeyCount,
				SizeLabel:  o.SizeLabel,
			}
		})
	default:
		s.sendError(req.ID, fmt.Sprintf("unknown action: %s", req.Action), CodeBadRequest)
		return
	}
	s.sendResponse(resp)
}

func (s *Server) fillInfo(resp *DictionaryResponse) {
	if s.runtime != nil {
		stats := s.runtime.Loader().Stats()
		resp.CurrentChunks = stats.LoadedChunks
		resp.AvailableChunks = stats.AvailableChunks
		resp.Keys = stats.Keys
		resp.Words = stats.Words
		resp.TargetChunks = s.runtime.TargetChunks()
		return
	}
	if s.dict != nil {
		resp.Keys = s.dict.Keys()
		resp.Words = s.dict.Words()
	}
}

// sendResponse encodes one msgpack value and flushes it to the client.
func (s *Server) sendResponse(response any) {
	if err := s.encoder.Encode(response); err != nil {
		s.logger.Errorf("Encoding response: %v", err)
		return
	}
	if err := s.writer.Flush(); err != nil {
		s.logger.Errorf("Writing response: %v", err)
	}
}

func (s *Server) sendError(id, message string, code int) {
	s.sendResponse(FindError{
		ID:    id,
		Error: message,
		Code:  code,
	})
}
