package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func main() {
	apiURL := os.Getenv("LAODEAI_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}
	apiKey := os.Getenv("LAODEAI_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "LAODEAI_API_KEY is required")
		os.Exit(1)
	}

	s := server.NewMCPServer(
		"laodeai",
		"0.1.0",
		server.WithToolCapabilities(false),
	)

	answerTool := mcp.NewTool("answer_query",
		mcp.WithDescription("Search the web for a question and return a short answer extracted from a trusted site (Stack Overflow and Stack Exchange, Wikipedia, GitHub Gist, wikiHow, recipe sites, Urban Dictionary, Know Your Meme)."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("The question to answer"),
		),
		mcp.WithBoolean("truncate",
			mcp.Description("Cut text answers to the chat length limit (default: true)"),
		),
		mcp.WithNumber("max_age_ms",
			mcp.Description("Accept a cached answer up to this old, in milliseconds (default: 0, always resolve)"),
		),
	)
	s.AddTool(answerTool, handleAnswer(newClient(apiURL, apiKey)))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}
