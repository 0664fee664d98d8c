package speech

import "strings"

// markdownReplacer strips formatting and symbols that sound wrong when read
// aloud. Model output occasionally leaks markdown despite the prompt rules.
var markdownReplacer = strings.NewReplacer(
	"**", "",
	"*", "",
	"_", "",
	"⚠️", "Warning:",
	"✅", "",
	"❌", "",
)

// Sanitize prepares text for synthesis: markdown and symbol cleanup, then
// whitespace collapse. Returns "" when nothing speakable remains.
func Sanitize(text string) string {
	text = markdownReplacer.Replace(text)
	return strings.Join(strings.Fields(text), " ")
}
