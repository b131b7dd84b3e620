// Package cli handles cmd line input for querying racks interactively
package cli

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"
	"time"

	"github.com/bastiangx/wordrack/internal/logger"
	"github.com/bastiangx/wordrack/internal/utils"
	"github.com/bastiangx/wordrack/pkg/anagram"
	"github.com/charmbracelet/log"
	"github.com/chzyer/readline"
)

// LineReader yields one line of input per call and io.EOF at the end.
type LineReader interface {
	Readline() (string, error)
	Close() error
}

// InputHandler reads racks line by line and prints the words each one makes.
type InputHandler struct {
	finder       *anagram.Finder
	limit        int
	byLength     bool
	out          io.Writer
	log          *log.Logger
	requestCount int
}

// NewInputHandler handles initialization of the InputHandler.
// limit caps the words printed per rack, 0 prints all of them.
func NewInputHandler(finder *anagram.Finder, limit int, byLength bool) *InputHandler {
	return &InputHandler{
		finder:   finder,
		limit:    limit,
		byLength: byLength,
		out:      os.Stdout,
		log:      logger.Default("cli"),
	}
}

// SetOutput redirects results, stdout by default.
func (h *InputHandler) SetOutput(w io.Writer) {
	h.out = w
}

// Start runs the loop on stdin, with line editing and history when
// stdin is a terminal.
func (h *InputHandler) Start() error {
	reader, err := newReader()
	if err != nil {
		return err
	}
	printBanner(h.out, h.finder.Expander().Marker())
	return h.Run(reader)
}

func newReader() (LineReader, error) {
	if !readline.IsTerminal(int(os.Stdin.Fd())) {
		return &plainReader{r: bufio.NewReader(os.Stdin)}, nil
	}
	return readline.NewEx(&readline.Config{
		Prompt:            promptStyle.Render("rack>") + " ",
		HistoryFile:       historyFile(),
		EOFPrompt:         "exit",
		InterruptPrompt:   "^C",
		HistorySearchFold: true,
	})
}

func historyFile() string {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return cacheDir + string(os.PathSeparator) + "wordrack_history"
}

// Run reads racks from r until EOF, an interrupt on an empty line, or q/quit/exit.
func (h *InputHandler) Run(r LineReader) error {
	defer r.Close()

	for {
		line, err := r.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if len(line) == 0 {
				return nil
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch strings.ToLower(line) {
		case "q", "quit", "exit":
			h.log.Debugf("Exiting after %d racks", h.requestCount)
			return nil
		}
		h.handleInput(line)
	}
}

// handleInput validates one rack, searches it and prints the result.
func (h *InputHandler) handleInput(line string) {
	h.requestCount++
	rack := utils.NormalizeRack(line)
	marker := h.finder.Expander().Marker()

	if !utils.IsValidRack(rack, marker) {
		printInvalidRack(h.out, rack, marker)
		return
	}

	start := time.Now()
	words, err := h.finder.FindAll(rack)
	elapsed := time.Since(start)
	h.log.Debugf("Took [ %v ] for rack '%s'", elapsed, rack)

	if err != nil {
		printFindError(h.out, rack, err)
		return
	}
	if len(words) == 0 {
		printNoWords(h.out, rack)
		return
	}

	if h.byLength {
		printByLength(h.out, rack, words, h.limit, elapsed)
		return
	}
	printWords(h.out, rack, words, h.limit, elapsed)
}

// plainReader serves piped input, where line editing makes no sense.
type plainReader struct {
	r *bufio.Reader
}

func (p *plainReader) Readline() (string, error) {
	line, err := p.r.ReadString('\n')
	if err == io.EOF && line != "" {
		return line, nil
	}
	return line, err
}

func (p *plainReader) Close() error {
	return nil
}
