package archive

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// PromptsFileName is written next to the archives.
const PromptsFileName = "prompts.txt"

const promptSeparator = "\n\n---------------------\n\n"

// RenderPrompts writes one instruction block per archive part followed by a
// closing block announcing that every part was sent.
func RenderPrompts(w io.Writer, parts int) error {
	var b strings.Builder
	for i := 1; i <= parts; i++ {
		fmt.Fprintf(&b, "--- Prompt %d/%d ---\n\n", i, parts)
		fmt.Fprintf(&b, "This is part %d of %d of the project source code.\n", i, parts)
		fmt.Fprintf(&b, "I will send the source in %d parts. Do not start any analysis or review until every part has arrived.\n", parts)
		b.WriteString("Reply to this message only with: \"Understood. Waiting for the next part.\"")
		b.WriteString(promptSeparator)
	}
	b.WriteString("--- Final prompt (after every part was sent) ---\n\n")
	b.WriteString("All parts of the project have been sent.\n")
	b.WriteString("Using all of the source code above, proceed with the analysis I ask for next.")
	b.WriteString(promptSeparator)

	_, err := io.WriteString(w, b.String())
	return err
}

// WritePrompts creates path and fills it with RenderPrompts output.
func WritePrompts(path string, parts int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := RenderPrompts(f, parts); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
