package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// ErrInputCancelled is returned when input is canceled by context.
var ErrInputCancelled = errors.New("input canceled")

// ErrInputClosed is returned when the input ends before an answer is read.
var ErrInputClosed = errors.New("input terminated")

// Prompter asks the user for values the command line did not provide.
type Prompter struct {
	in      io.Reader
	writer  io.Writer
	reader  *bufio.Reader
	readMu  sync.Mutex
	isTerm  func(fd int) bool
	readPwd func(fd int) ([]byte, error)
}

// NewPrompter creates a prompter reading from reader and writing prompts to
// writer. nil arguments default to stdin and stdout.
func NewPrompter(reader io.Reader, writer io.Writer) *Prompter {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}
	return &Prompter{
		in:      reader,
		writer:  writer,
		reader:  bufio.NewReader(reader),
		isTerm:  term.IsTerminal,
		readPwd: term.ReadPassword,
	}
}

// readLine reads one line, returning early when ctx is canceled. The read
// itself keeps running in the background until the line arrives.
func (p *Prompter) readLine(ctx context.Context) (string, error) {
	type result struct {
		err   error
		value string
	}
	resultCh := make(chan result, 1)

	go func() {
		p.readMu.Lock()
		defer p.readMu.Unlock()

		value, err := p.reader.ReadString('\n')
		resultCh <- result{value: value, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ErrInputCancelled
	case res := <-resultCh:
		if res.err != nil {
			if errors.Is(res.err, io.EOF) && res.value != "" {
				return strings.TrimSpace(res.value), nil
			}
			if errors.Is(res.err, io.EOF) {
				return "", ErrInputClosed
			}
			return "", res.err
		}
		return strings.TrimSpace(res.value), nil
	}
}

func (p *Prompter) prompt(label string) error {
	if _, err := fmt.Fprint(p.writer, FormatPrompt(label)); err != nil {
		return fmt.Errorf("failed to write prompt: %w", err)
	}
	return nil
}

// Ask shows label and returns the trimmed answer, which may be empty.
func (p *Prompter) Ask(ctx context.Context, label string) (string, error) {
	if err := p.prompt(label); err != nil {
		return "", err
	}
	return p.readLine(ctx)
}

// AskRequired repeats the question until a non-empty answer is given.
func (p *Prompter) AskRequired(ctx context.Context, label string) (string, error) {
	for {
		answer, err := p.Ask(ctx, label)
		if err != nil {
			return "", err
		}
		if answer != "" {
			return answer, nil
		}
		if _, err := fmt.Fprintln(p.writer, FormatError("A value is required. Please try again.")); err != nil {
			slog.Warn("Failed to write error message", "error", err)
		}
	}
}

// Secret reads a value without echoing it when the input is a terminal.
// Other inputs are read line by line.
func (p *Prompter) Secret(ctx context.Context, label string) (string, error) {
	f, ok := p.in.(*os.File)
	if !ok || !p.isTerm(int(f.Fd())) {
		return p.Ask(ctx, label)
	}

	if err := p.prompt(label); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", ErrInputCancelled
	}
	value, err := p.readPwd(int(f.Fd()))
	if _, werr := fmt.Fprintln(p.writer); werr != nil {
		slog.Warn("Failed to write newline", "error", werr)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read secret: %w", err)
	}
	return string(value), nil
}

// Choose repeats prompt until the answer is one of choices, compared
// case-insensitively. The matching choice is returned.
func (p *Prompter) Choose(ctx context.Context, prompt string, choices []string) (string, error) {
	label := fmt.Sprintf("%s [%s]", prompt, strings.Join(choices, "/"))
	for {
		answer, err := p.Ask(ctx, label)
		if err != nil {
			return "", err
		}
		for _, c := range choices {
			if strings.EqualFold(answer, c) {
				return c, nil
			}
		}
		if _, err := fmt.Fprintln(p.writer, FormatError("Invalid choice. Please try again.")); err != nil {
			slog.Warn("Failed to write error message", "error", err)
		}
	}
}

// Confirm asks a yes/no question.
func (p *Prompter) Confirm(ctx context.Context, question string) (bool, error) {
	choice, err := p.Choose(ctx, question, []string{"y", "n"})
	if err != nil {
		return false, err
	}
	return choice == "y", nil
}
