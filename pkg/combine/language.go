package combine

import (
	"path"

	"github.com/alecthomas/chroma/v2/lexers"
)

// languageOf names the language of a file from its name, or returns "".
func languageOf(task FileTask) string {
	lexer := lexers.Match(path.Base(task.RelPath))
	if lexer == nil {
		return ""
	}
	return lexer.Config().Name
}
