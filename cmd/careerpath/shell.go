package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Yash-Raj20/Careerpath-Frontend/internal/client"
	"github.com/Yash-Raj20/Careerpath-Frontend/internal/model/chat"
	"github.com/Yash-Raj20/Careerpath-Frontend/internal/service/catalog"
	"github.com/Yash-Raj20/Careerpath-Frontend/internal/service/interview"
	"github.com/Yash-Raj20/Careerpath-Frontend/internal/service/mockinterview"
	"github.com/Yash-Raj20/Careerpath-Frontend/internal/service/session"
)

type mode int

const (
	modeChat mode = iota
	modeInterview
	modeMock
)

var levels = map[string]string{
	"beginner":     "Beginner",
	"intermediate": "Intermediate",
	"advanced":     "Advanced",
}

const helpText = `Commands:
  /new                    start a new chat
  /list                   list chat sessions
  /load <id>              open a chat session
  /delete <id>            delete a chat session
  /chat                   switch back to chat
  /interview <role>       start a practice interview
  /mock <role> [level]    start a mock interview (Beginner, Intermediate, Advanced)
  /skip                   skip the current mock interview question
  /listen                 answer the current mock interview question by voice
  /export <file>          save the interview transcript as text
  /clear                  clear the interview transcript
  /quit                   exit
Any other line is sent as a message or answer.`

// shell is the terminal front end over the engine components.
type shell struct {
	controller   *session.Controller
	catalog      *catalog.Manager
	interview    *interview.Flow
	mock         *mockinterview.Flow
	defaultLevel string

	out  io.Writer
	mode mode
}

// run reads commands from in until EOF, /quit or ctx cancellation.
func (s *shell) run(ctx context.Context, in io.Reader) error {
	s.printTranscript(s.controller.Transcript())

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	s.prompt()
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		if quit := s.handle(ctx, scanner.Text()); quit {
			return nil
		}
		s.prompt()
	}
	return scanner.Err()
}

func (s *shell) prompt() {
	switch s.mode {
	case modeInterview:
		fmt.Fprint(s.out, "interview> ")
	case modeMock:
		fmt.Fprint(s.out, "mock> ")
	default:
		fmt.Fprint(s.out, "chat> ")
	}
}

// handle executes one input line and reports whether the shell should exit.
func (s *shell) handle(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if !strings.HasPrefix(line, "/") {
		s.send(ctx, line)
		return false
	}

	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "/quit", "/exit":
		return true
	case "/help":
		fmt.Fprintln(s.out, helpText)
	case "/new":
		s.controller.NewSession(ctx)
		s.mode = modeChat
		fmt.Fprintln(s.out, "Started a new chat.")
	case "/list":
		s.list(ctx)
	case "/load":
		s.load(ctx, arg)
	case "/delete":
		s.delete(ctx, arg)
	case "/chat":
		s.mode = modeChat
		s.printTranscript(s.controller.Transcript())
	case "/interview":
		s.startInterview(ctx, arg)
	case "/mock":
		s.startMock(ctx, arg)
	case "/skip":
		out, err := s.mock.SkipQuestion(ctx)
		if s.report(err) {
			return false
		}
		s.printOutcome(out)
	case "/listen":
		fmt.Fprintln(s.out, "Listening...")
		heard, out, err := s.mock.Listen(ctx)
		if s.report(err) {
			return false
		}
		fmt.Fprintf(s.out, "(heard %q)\n", heard)
		s.printOutcome(out)
	case "/export":
		s.export(arg)
	case "/clear":
		s.interview.Clear(ctx)
		fmt.Fprintln(s.out, "Chat cleared")
	default:
		fmt.Fprintf(s.out, "Unknown command %s. Type /help for the list.\n", cmd)
	}
	return false
}

func (s *shell) send(ctx context.Context, text string) {
	switch s.mode {
	case modeInterview:
		fmt.Fprintf(s.out, "AI: %s\n", interview.TypingText)
		turn, err := s.interview.Answer(ctx, text)
		if errors.Is(err, interview.ErrEmptyAnswer) {
			return
		}
		if s.report(err) {
			return
		}
		s.printTurn(turn)
	case modeMock:
		out, err := s.mock.SubmitAnswer(ctx, text)
		if s.report(err) {
			return
		}
		s.printOutcome(out)
	default:
		res, err := s.controller.Submit(ctx, text)
		if err != nil {
			s.report(err)
			return
		}
		switch res.Status {
		case session.StatusReconciled:
			s.printTranscript(res.Transcript)
		case session.StatusAppended:
			s.printTurn(res.Reply)
		}
	}
}

func (s *shell) list(ctx context.Context) {
	if err := s.catalog.Refresh(ctx); err != nil {
		fmt.Fprintf(s.out, "Showing cached sessions: %s\n", client.UserMessage(err))
	}
	entries := s.catalog.Snapshot()
	if len(entries) == 0 {
		fmt.Fprintln(s.out, "No chat sessions yet.")
		return
	}
	active := s.controller.SessionID()
	for _, entry := range entries {
		marker := " "
		if entry.ID == active {
			marker = "*"
		}
		fmt.Fprintf(s.out, "%s %s  %s\n", marker, entry.ID, entry.Label())
	}
}

func (s *shell) load(ctx context.Context, id string) {
	if id == "" {
		fmt.Fprintln(s.out, "Usage: /load <id>")
		return
	}
	if s.report(s.controller.Load(ctx, id)) {
		return
	}
	s.mode = modeChat
	s.printTranscript(s.controller.Transcript())
}

func (s *shell) delete(ctx context.Context, id string) {
	if id == "" {
		fmt.Fprintln(s.out, "Usage: /delete <id>")
		return
	}
	if s.report(s.controller.DeleteSession(ctx, id)) {
		return
	}
	fmt.Fprintln(s.out, "Chat deleted.")
}

func (s *shell) startInterview(ctx context.Context, role string) {
	turn, err := s.interview.Start(ctx, role)
	if s.report(err) {
		return
	}
	s.mode = modeInterview
	s.printTurn(turn)
}

func (s *shell) startMock(ctx context.Context, arg string) {
	role, level := splitLevel(arg, s.defaultLevel)
	fmt.Fprintln(s.out, "Starting...")
	turn, err := s.mock.Start(ctx, role, level)
	if s.report(err) {
		return
	}
	s.mode = modeMock
	s.printTurn(turn)
}

func (s *shell) export(path string) {
	if path == "" {
		fmt.Fprintln(s.out, "Usage: /export <file>")
		return
	}
	if s.report(writeFile(path, s.interview.Export)) {
		return
	}
	fmt.Fprintf(s.out, "Interview saved to %s\n", path)
}

// writeFile creates path, fills it with write and reports the first of the
// write and close errors.
func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return write(f)
}

// splitLevel treats a trailing known level word as the experience level.
func splitLevel(arg, fallback string) (string, string) {
	fields := strings.Fields(arg)
	if len(fields) > 1 {
		if level, ok := levels[strings.ToLower(fields[len(fields)-1])]; ok {
			return strings.Join(fields[:len(fields)-1], " "), level
		}
	}
	return strings.Join(fields, " "), fallback
}

// report prints err for the user and reports whether there was one.
func (s *shell) report(err error) bool {
	if err == nil {
		return false
	}
	var msg string
	switch {
	case client.IsTransport(err), client.IsServer(err):
		msg = client.UserMessage(err)
	default:
		msg = err.Error()
	}
	fmt.Fprintf(s.out, "! %s\n", msg)
	return true
}

func (s *shell) printOutcome(out mockinterview.Outcome) {
	if out.Feedback.Content != "" {
		s.printTurn(out.Feedback)
	}
	if out.Next.Content != "" {
		s.printTurn(out.Next)
	}
}

func (s *shell) printTranscript(turns []chat.Turn) {
	for _, turn := range turns {
		s.printTurn(turn)
	}
}

func (s *shell) printTurn(turn chat.Turn) {
	speaker := "AI"
	if turn.Role == chat.RoleUser {
		speaker = "You"
	}
	fmt.Fprintf(s.out, "%s: %s\n", speaker, turn.Content)
}
