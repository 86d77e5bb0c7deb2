package pdf

import "github.com/a3tai/mcp-pdf-keymatch/internal/match"

// FileInfo represents information about an input file in the working
// directory
type FileInfo struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Kind         string `json:"kind"` // "pdf" or "docx"
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modified_time"`
}

// Request Types

// ExtractRequest represents a request to find keyword occurrences in a PDF
type ExtractRequest struct {
	Path    string `json:"path"`
	Keyword string `json:"keyword"`
}

// MergeRequest represents a request to append the occurrences found in a
// PDF to a Word template
type MergeRequest struct {
	PDFPath      string `json:"pdf_path"`
	TemplatePath string `json:"template_path"`
	Keyword      string `json:"keyword"`
	// OutputPath defaults to Updated_<template name> next to the template
	OutputPath string `json:"output_path,omitempty"`
}

// InspectRequest represents a request for structural PDF information
type InspectRequest struct {
	Path string `json:"path"`
}

// Response Types

// ExtractResult represents the occurrences found in a PDF
type ExtractResult struct {
	Path       string         `json:"path" yaml:"path"`
	Keyword    string         `json:"keyword" yaml:"keyword"`
	Matches    []match.Record `json:"matches" yaml:"matches"`
	MatchCount int            `json:"match_count" yaml:"match_count"`
	Pages      int            `json:"pages" yaml:"pages"`
}

// MergeResult represents a written output document
type MergeResult struct {
	OutputPath string `json:"output_path"`
	MatchCount int    `json:"match_count"`
	Size       int64  `json:"size"`
}

// ProcessResult is the in-memory outcome of extraction followed by a merge
type ProcessResult struct {
	Document []byte
	Matches  []match.Record
}

// ServerInfoResult represents server information and usage guidance
type ServerInfoResult struct {
	ServerName        string     `json:"server_name"`
	Version           string     `json:"version"`
	DefaultDirectory  string     `json:"default_directory"`
	MaxFileSize       int64      `json:"max_file_size"`
	AvailableTools    []ToolInfo `json:"available_tools"`
	DirectoryContents []FileInfo `json:"directory_contents"`
	Truncated         bool       `json:"truncated,omitempty"`
	UsageGuidance     string     `json:"usage_guidance"`
}

// ToolInfo represents information about an available tool
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Usage       string `json:"usage"`
	Parameters  string `json:"parameters"`
}
