package monitor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	paymentTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("42"))
	paymentAmountStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("220"))
	paymentMetaStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245"))
	paymentBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("42")).
			Padding(0, 1)
)

// ConsoleNotifier renders each payment as a styled block on w.
type ConsoleNotifier struct {
	w io.Writer
}

func NewConsoleNotifier(w io.Writer) *ConsoleNotifier {
	if w == nil {
		w = os.Stdout
	}
	return &ConsoleNotifier{w: w}
}

func (c *ConsoleNotifier) Notify(p Payment) error {
	body := fmt.Sprintf("%s\n%s %s\nfrom %s\n%s",
		paymentTitleStyle.Render("Payment received"),
		paymentAmountStyle.Render(p.Amount),
		paymentAmountStyle.Render(p.Token),
		p.From,
		paymentMetaStyle.Render(p.ExplorerURL),
	)
	_, err := fmt.Fprintln(c.w, paymentBoxStyle.Render(body))
	return err
}

// FileNotifier appends one JSON object per payment to a log file, one line
// each, so the file stays greppable and tail-able.
type FileNotifier struct {
	path string
}

func NewFileNotifier(path string) *FileNotifier {
	return &FileNotifier{path: path}
}

func (f *FileNotifier) Notify(p Payment) error {
	file, err := os.OpenFile(f.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()
	line, err := json.Marshal(p)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(file, "%s\n", line)
	return err
}

// WebhookNotifier POSTs each payment as JSON to a fixed URL. One attempt per
// payment; a dead endpoint must not back up the scan loop.
type WebhookNotifier struct {
	url    string
	client *http.Client
}

func NewWebhookNotifier(url string) *WebhookNotifier {
	return &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (w *WebhookNotifier) Notify(p Payment) error {
	body, err := json.Marshal(p)
	if err != nil {
		return err
	}
	resp, err := w.client.Post(w.url, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned %s", resp.Status)
	}
	return nil
}
