package main

import (
	"bufio"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// StoredMessage is one e-mail accepted by the sink.
type StoredMessage struct {
	ID         string    `json:"id"`
	From       string    `json:"from"`
	To         []string  `json:"to"`
	Subject    string    `json:"subject"`
	Data       string    `json:"data"`
	ReceivedAt time.Time `json:"received_at"`
}

// MailSink is a development SMTP endpoint: it accepts every message over a
// minimal SMTP exchange (no TLS, no auth) and keeps it in memory for
// inspection over HTTP.
type MailSink struct {
	mu       sync.Mutex
	messages []StoredMessage
	sinkID   string
}

func NewMailSink() *MailSink {
	return &MailSink{
		sinkID: "MAILSINK_" + uuid.New().String()[:8],
	}
}

func (s *MailSink) store(msg StoredMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
}

func (s *MailSink) list() []StoredMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]StoredMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *MailSink) clear() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.messages)
	s.messages = nil
	return n
}

func (s *MailSink) serveSMTP(ln net.Listener) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			log.Warn().Err(err).Msg("SMTP listener closed")
			return
		}
		go s.handleConn(conn)
	}
}

// handleConn speaks just enough SMTP for a client to hand over a message:
// EHLO/HELO, MAIL, RCPT, DATA, RSET, NOOP, QUIT.
func (s *MailSink) handleConn(conn net.Conn) {
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(30 * time.Second))

	r := bufio.NewReader(conn)
	w := bufio.NewWriter(conn)

	reply := func(line string) {
		_, _ = w.WriteString(line + "\r\n")
		_ = w.Flush()
	}

	reply("220 mailsink ESMTP ready")

	var from string
	var rcpts []string

	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimRight(line, "\r\n")
		verb := strings.ToUpper(line)

		switch {
		case strings.HasPrefix(verb, "EHLO"), strings.HasPrefix(verb, "HELO"):
			reply("250 mailsink")
		case strings.HasPrefix(verb, "MAIL FROM:"):
			from = strings.Trim(line[len("MAIL FROM:"):], " <>")
			reply("250 OK")
		case strings.HasPrefix(verb, "RCPT TO:"):
			rcpts = append(rcpts, strings.Trim(line[len("RCPT TO:"):], " <>"))
			reply("250 OK")
		case verb == "DATA":
			reply("354 End data with <CR><LF>.<CR><LF>")
			data, err := readData(r)
			if err != nil {
				return
			}
			msg := StoredMessage{
				ID:         uuid.New().String(),
				From:       from,
				To:         rcpts,
				Subject:    subjectOf(data),
				Data:       data,
				ReceivedAt: time.Now(),
			}
			s.store(msg)
			log.Info().
				Str("from", msg.From).
				Strs("to", msg.To).
				Str("subject", msg.Subject).
				Msg("Message accepted")
			from = ""
			rcpts = nil
			reply("250 OK: queued")
		case verb == "RSET":
			from = ""
			rcpts = nil
			reply("250 OK")
		case verb == "NOOP":
			reply("250 OK")
		case verb == "QUIT":
			reply("221 Bye")
			return
		default:
			reply("502 Command not implemented")
		}
	}
}

func readData(r *bufio.Reader) (string, error) {
	var b strings.Builder
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return "", err
		}
		trimmed := strings.TrimRight(line, "\r\n")
		if trimmed == "." {
			return b.String(), nil
		}
		// undo dot-stuffing per RFC 5321
		if strings.HasPrefix(trimmed, "..") {
			trimmed = trimmed[1:]
		}
		b.WriteString(trimmed)
		b.WriteString("\n")
	}
}

func subjectOf(data string) string {
	for _, line := range strings.Split(data, "\n") {
		if line == "" {
			break // end of headers
		}
		if strings.HasPrefix(strings.ToLower(line), "subject:") {
			return strings.TrimSpace(line[len("subject:"):])
		}
	}
	return ""
}

// Handler exposes the sink over HTTP for inspection during development.
type Handler struct {
	sink *MailSink
}

func NewHandler(sink *MailSink) *Handler {
	return &Handler{sink: sink}
}

func (h *Handler) ListMessages(c *gin.Context) {
	msgs := h.sink.list()
	c.JSON(http.StatusOK, gin.H{
		"count":    len(msgs),
		"messages": msgs,
	})
}

func (h *Handler) ClearMessages(c *gin.Context) {
	n := h.sink.clear()
	c.JSON(http.StatusOK, gin.H{
		"cleared": n,
	})
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"sink_id":   h.sink.sinkID,
		"timestamp": time.Now(),
	})
}

// SetupRouter configures all routes
func SetupRouter(handler *Handler) *gin.Engine {
	router := gin.Default()

	router.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)

		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", duration).
			Msg("Request processed")
	})

	router.GET("/messages", handler.ListMessages)
	router.DELETE("/messages", handler.ClearMessages)
	router.GET("/health", handler.HealthCheck)

	return router
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	smtpAddr := getEnv("SMTP_LISTEN_ADDR", ":1025")
	httpAddr := getEnv("HTTP_LISTEN_ADDR", ":8025")

	log.Info().
		Str("smtp_addr", smtpAddr).
		Str("http_addr", httpAddr).
		Msg("Starting mail sink")

	sink := NewMailSink()

	ln, err := net.Listen("tcp", smtpAddr)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to bind SMTP listener")
	}
	go sink.serveSMTP(ln)

	handler := NewHandler(sink)
	router := SetupRouter(handler)

	srv := &http.Server{
		Addr:    httpAddr,
		Handler: router,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down mail sink")
	_ = ln.Close()
	_ = srv.Close()
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
