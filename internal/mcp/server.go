package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	stdlog "log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/a3tai/mcp-pdf-keymatch/internal/config"
	"github.com/a3tai/mcp-pdf-keymatch/internal/descriptions"
	"github.com/a3tai/mcp-pdf-keymatch/internal/failure"
	"github.com/a3tai/mcp-pdf-keymatch/internal/pdf"
)

const shutdownTimeout = 5 * time.Second

// Server represents the MCP server instance
type Server struct {
	config     *config.Config
	pdfService *pdf.Service
	mcpServer  *server.MCPServer

	// stdio transport endpoints, replaceable in tests
	stdin  io.Reader
	stdout io.Writer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, pdfService *pdf.Service) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if pdfService == nil {
		return nil, fmt.Errorf("pdfService cannot be nil")
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // the tool list is fixed
		server.WithRecovery(),
	)

	s := &Server{
		config:     cfg,
		pdfService: pdfService,
		mcpServer:  mcpServer,
		stdin:      os.Stdin,
		stdout:     os.Stdout,
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	extractTool := mcp.NewTool(
		"keymatch_extract",
		mcp.WithDescription(descriptions.GetToolDescription("keymatch_extract")),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the PDF file, absolute or relative to the working directory"),
		),
		mcp.WithString("keyword",
			mcp.Required(),
			mcp.Description("Text to search for, case-insensitive"),
		),
	)
	s.mcpServer.AddTool(extractTool, s.handleExtract)

	mergeTool := mcp.NewTool(
		"keymatch_merge",
		mcp.WithDescription(descriptions.GetToolDescription("keymatch_merge")),
		mcp.WithString("pdf_path",
			mcp.Required(),
			mcp.Description("Path to the source PDF"),
		),
		mcp.WithString("template_path",
			mcp.Required(),
			mcp.Description("Path to the Word (.docx) template"),
		),
		mcp.WithString("keyword",
			mcp.Required(),
			mcp.Description("Text to search for, case-insensitive"),
		),
		mcp.WithString("output_path",
			mcp.Description("Destination .docx (default: Updated_<template name> next to the template)"),
		),
	)
	s.mcpServer.AddTool(mergeTool, s.handleMerge)

	inspectTool := mcp.NewTool(
		"keymatch_inspect",
		mcp.WithDescription(descriptions.GetToolDescription("keymatch_inspect")),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the PDF file"),
		),
	)
	s.mcpServer.AddTool(inspectTool, s.handleInspect)

	serverInfoTool := mcp.NewTool(
		"keymatch_server_info",
		mcp.WithDescription(descriptions.GetToolDescription("keymatch_server_info")),
	)
	s.mcpServer.AddTool(serverInfoTool, s.handleServerInfo)
}

// toolError turns a service failure into a tool error result led by the
// user-facing message for its kind
func toolError(err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, failure.ErrExtraction):
		return mcp.NewToolResultError(fmt.Sprintf("Could not read the PDF. %v", err))
	case errors.Is(err, failure.ErrMerge):
		return mcp.NewToolResultError(fmt.Sprintf("Error generating the Word file. %v", err))
	default:
		return mcp.NewToolResultError(err.Error())
	}
}

// Handler functions
func (s *Server) handleExtract(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	keyword, err := request.RequireString("keyword")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.ExtractFile(pdf.ExtractRequest{Path: path, Keyword: keyword})
	if err != nil {
		return toolError(err), nil
	}

	return mcp.NewToolResultText(s.formatExtractResult(result)), nil
}

func (s *Server) handleMerge(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	// Missing inputs are reported together by the service
	var req pdf.MergeRequest
	req.PDFPath, _ = args["pdf_path"].(string)
	req.TemplatePath, _ = args["template_path"].(string)
	req.Keyword, _ = args["keyword"].(string)
	req.OutputPath, _ = args["output_path"].(string)

	result, err := s.pdfService.MergeFiles(req)
	if err != nil {
		return toolError(err), nil
	}

	text := fmt.Sprintf("Successfully processed! Found %d matches.\n", result.MatchCount)
	text += fmt.Sprintf("Output: %s\n", result.OutputPath)
	text += fmt.Sprintf("Size: %d bytes\n", result.Size)
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleInspect(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.InspectFile(pdf.InspectRequest{Path: path})
	if err != nil {
		return toolError(err), nil
	}

	text := fmt.Sprintf("PDF: %s\n", result.Path)
	text += fmt.Sprintf("Version: %s\n", result.Version)
	text += fmt.Sprintf("Pages: %d\n", result.Pages)
	text += fmt.Sprintf("Size: %d bytes\n", result.Size)
	text += fmt.Sprintf("Encrypted: %t\n", result.Encrypted)
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleServerInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.pdfService.ServerInfo(ctx, s.config.ServerName, s.config.Version)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatServerInfoResult(result)), nil
}

// Formatting methods
func (s *Server) formatExtractResult(result *pdf.ExtractResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d occurrence(s) of '%s' in %s (%d pages)\n", result.MatchCount, result.Keyword, result.Path, result.Pages)
	if result.MatchCount == 0 {
		fmt.Fprintf(&b, "No occurrences of '%s' found in the PDF.\n", result.Keyword)
		return b.String()
	}
	b.WriteString("\n")
	for i, m := range result.Matches {
		fmt.Fprintf(&b, "%d. %s\n", i+1, m.String())
	}
	return b.String()
}

func (s *Server) formatServerInfoResult(result *pdf.ServerInfoResult) string {
	text := fmt.Sprintf("%s v%s - Server Information\n", result.ServerName, result.Version)
	text += fmt.Sprintf("Working Directory: %s\n", result.DefaultDirectory)
	text += fmt.Sprintf("Max File Size: %d MB\n\n", result.MaxFileSize/(1024*1024))

	if len(result.DirectoryContents) > 0 {
		text += fmt.Sprintf("Input Files (%d found):\n", len(result.DirectoryContents))
		for i, file := range result.DirectoryContents {
			if i >= 10 {
				text += fmt.Sprintf("   ... and %d more files\n", len(result.DirectoryContents)-10)
				break
			}
			text += fmt.Sprintf("   %d. [%s] %s (%d bytes)\n", i+1, file.Kind, file.Name, file.Size)
		}
		if result.Truncated {
			text += "   (listing truncated)\n"
		}
		text += "\n"
	} else {
		text += "Input Files: No PDF or Word files found in the working directory\n\n"
	}

	text += "Available Tools:\n"
	for _, tool := range result.AvailableTools {
		text += fmt.Sprintf("\n• %s\n", tool.Name)
		text += fmt.Sprintf("  Usage: %s\n", tool.Usage)
		text += fmt.Sprintf("  Parameters: %s\n", tool.Parameters)
	}

	text += "\n" + result.UsageGuidance

	return text
}

// Run starts the MCP server in the configured mode and blocks until ctx is
// cancelled or the transport fails
func (s *Server) Run(ctx context.Context) error {
	switch {
	case s.config.IsServerMode():
		return s.runServerMode(ctx)
	case s.config.IsStdioMode():
		return s.runStdioMode(ctx)
	default:
		return fmt.Errorf("unsupported mode for MCP server: %s", s.config.Mode)
	}
}

// runStdioMode serves MCP over the process's standard streams
func (s *Server) runStdioMode(ctx context.Context) error {
	log.Debug().
		Str("dir", s.config.WorkDir).
		Msg("starting keymatch MCP server in stdio mode")

	stdio := server.NewStdioServer(s.mcpServer)
	stdio.SetErrorLogger(stdlog.New(log.Logger, "", 0))

	err := stdio.Listen(ctx, s.stdin, s.stdout)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// runServerMode serves MCP over HTTP with server-sent events
func (s *Server) runServerMode(ctx context.Context) error {
	addr := s.config.Address()
	sse := server.NewSSEServer(s.mcpServer, server.WithBaseURL("http://"+addr))

	log.Info().
		Str("addr", addr).
		Str("dir", s.config.WorkDir).
		Msg("starting keymatch MCP server in server mode")

	errCh := make(chan error, 1)
	go func() {
		errCh <- sse.Start(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve sse: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := sse.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down sse server: %w", err)
		}
		log.Info().Msg("server stopped")
		return nil
	}
}
