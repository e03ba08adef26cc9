package domain

import "strings"

type ComposerStatus string

const (
	ComposerIdle       ComposerStatus = "idle"
	ComposerSubmitting ComposerStatus = "submitting"
	ComposerFailed     ComposerStatus = "failed"
)

// Composer tracks the link being typed. The text survives until the remote
// confirms the append and is kept after a failed one.
type Composer struct {
	Status ComposerStatus
	Text   string
}

func (c *Composer) Edit(text string) {
	if c.Status == ComposerSubmitting {
		return
	}
	c.Text = text
	if c.Status == ComposerFailed {
		c.Status = ComposerIdle
	}
}

// Begin moves to Submitting and returns the trimmed text. Blank input or an
// in-flight submission returns false.
func (c *Composer) Begin() (string, bool) {
	if c.Status == ComposerSubmitting {
		return "", false
	}
	text := strings.TrimSpace(c.Text)
	if text == "" {
		return "", false
	}
	c.Status = ComposerSubmitting
	return text, true
}

func (c *Composer) Succeed() {
	c.Status = ComposerIdle
	c.Text = ""
}

func (c *Composer) Fail() {
	if c.Status != ComposerSubmitting {
		return
	}
	c.Status = ComposerFailed
}

func (c Composer) Submitting() bool {
	return c.Status == ComposerSubmitting
}
