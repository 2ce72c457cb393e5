package cmdshared

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/viper"
)

var promptInput = bufio.NewReader(os.Stdin)

// SetPromptInput replaces the reader prompts are answered from
func SetPromptInput(r io.Reader) {
	promptInput = bufio.NewReader(r)
}

func PromptYesNo(prompt string) bool {
	fmt.Print(prompt)
	if viper.GetBool("non-interactive") {
		fmt.Println("Y (non-interactive mode)")
		return true
	}
	answer, err := promptInput.ReadString('\n')
	if err != nil && len(answer) == 0 {
		fmt.Println()
		return true
	}

	ansNormal := strings.ToLower(strings.TrimSpace(answer))
	if len(ansNormal) > 0 && ansNormal[0] == 'n' {
		return false
	}
	return true
}

// PromptValue asks for a value, returning def if the answer is empty or the input is closed
func PromptValue(prompt string, def string) string {
	fmt.Print(prompt)
	if viper.GetBool("non-interactive") {
		fmt.Printf("%s\n", def)
		return def
	}
	value, err := promptInput.ReadString('\n')
	if err != nil && len(value) == 0 {
		fmt.Println()
		return def
	}
	// Trims both CR and LF
	value = strings.TrimSpace(value)
	if len(value) > 0 {
		return value
	}
	return def
}
