package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/wolfman30/chatprompt/internal/prompt"
)

type chatSession interface {
	SubmitPrompt(ctx context.Context, text string) (*prompt.PromptResponse, error)
	TokenUsage() prompt.TokenUsage
}

// runConsole reads user lines from in until "q", EOF or cancellation. A
// failed turn is reported and the loop continues.
func runConsole(ctx context.Context, session chatSession, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, "Welcome to the chat client example! ('q' to quit)")
	fmt.Fprintln(out)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "User: ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		input := scanner.Text()
		if strings.EqualFold(strings.TrimSpace(input), "q") {
			return nil
		}

		resp, err := session.SubmitPrompt(ctx, input)
		if err != nil {
			if errors.Is(err, context.Canceled) && ctx.Err() != nil {
				return nil
			}
			fmt.Fprintf(out, "Assistant: \n\n[Error]\n%v\n\n", err)
			continue
		}
		printTurn(out, resp, session.TokenUsage())
	}
}

func printTurn(out io.Writer, resp *prompt.PromptResponse, usage prompt.TokenUsage) {
	fmt.Fprint(out, "Assistant: \n\n")
	if resp.Reasoning != nil {
		fmt.Fprintf(out, "[Reasoning]\n%s\n\n", strings.ReplaceAll(*resp.Reasoning, "\n", "*"))
	}
	fmt.Fprintf(out, "[Response]\n%s\n\n\n", strings.ReplaceAll(resp.Response, "\n", ""))
	fmt.Fprintf(out, "TokenUsage: In: %d, Out: %d, Total: %d\n\n", usage.InputTokens, usage.OutputTokens, usage.TotalTokens)
}
