package text

import "strings"

// Characters accepted instead of backticks in test content.
// Go raw strings cannot contain backticks, which makes fenced code hard to write.
var testContentReplacer = strings.NewReplacer(
	"”", "`", // Ex: ”””{r} will become ```{r}
	"‛", "`", // Ex: ‛‛‛python will become ```python
)

// UnescapeTestContent restores the backticks of test content.
func UnescapeTestContent(content string) string {
	return testContentReplacer.Replace(content)
}
