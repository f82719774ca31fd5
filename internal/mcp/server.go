package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/docweave/docweave/internal/config"
	"github.com/docweave/docweave/internal/descriptions"
	"github.com/docweave/docweave/internal/docsource"
	"github.com/docweave/docweave/internal/model"
	"github.com/docweave/docweave/internal/structure"
)

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	extractor *docsource.Extractor
	assembler *structure.Assembler
	search    *docsource.Search
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, extractor *docsource.Extractor, assembler *structure.Assembler) (*Server, error) {
	if extractor == nil {
		return nil, fmt.Errorf("extractor cannot be nil")
	}
	if assembler == nil {
		return nil, fmt.Errorf("assembler cannot be nil")
	}

	// Create MCP server
	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // We don't support dynamic tool capabilities
	)

	s := &Server{
		config:    cfg,
		extractor: extractor,
		assembler: assembler,
		search:    docsource.NewSearch(cfg.MaxFileSize),
		mcpServer: mcpServer,
	}

	// Register tools
	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	// Register structure file tool
	structureFileTool := mcp.NewTool(
		"document_structure_file",
		mcp.WithDescription("Extract a PDF into one text stream with semantic structure annotations"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
	)
	s.mcpServer.AddTool(structureFileTool, s.handleStructureFile)

	// Register structure JSON tool
	structureJSONTool := mcp.NewTool(
		"document_structure_json",
		mcp.WithDescription("Run structure assembly on pre-extracted page data supplied as JSON"),
		mcp.WithString("document",
			mcp.Required(),
			mcp.Description("JSON document with pages, blocks, and lines"),
		),
	)
	s.mcpServer.AddTool(structureJSONTool, s.handleStructureJSON)

	// Register validate file tool
	validateFileTool := mcp.NewTool(
		"document_validate_file",
		mcp.WithDescription("Validate if a file is a readable PDF within the configured size limit"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
	)
	s.mcpServer.AddTool(validateFileTool, s.handleValidateFile)

	// Register search directory tool
	searchDirectoryTool := mcp.NewTool(
		"document_search_directory",
		mcp.WithDescription("Search for PDF files in a directory with optional fuzzy search"),
		mcp.WithString("directory",
			mcp.Description("Directory path to search (uses default if empty)"),
		),
		mcp.WithString("query",
			mcp.Description("Optional search query for fuzzy matching"),
		),
	)
	s.mcpServer.AddTool(searchDirectoryTool, s.handleSearchDirectory)

	// Register server info tool
	serverInfoTool := mcp.NewTool(
		"document_server_info",
		mcp.WithDescription("Get server information, available tools, directory contents, and usage guidance"),
	)
	s.mcpServer.AddTool(serverInfoTool, s.handleServerInfo)
}

// applyOverrides copies configured structure tuning overrides onto the
// document before assembly.
func (s *Server) applyOverrides(doc model.Document) model.Document {
	if s.config.BodyFontSize > 0 {
		doc.AvgFontSize = s.config.BodyFontSize
	}
	return doc
}

// Handler functions
func (s *Server) handleStructureFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	doc, err := s.extractor.ExtractPages(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.assembler.Assemble(s.applyOverrides(doc))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	payload, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}

	return mcp.NewToolResultText(string(payload)), nil
}

func (s *Server) handleStructureJSON(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docJSON, err := request.RequireString("document")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	doc, err := docsource.LoadJSONBytes([]byte(docJSON))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.assembler.Assemble(s.applyOverrides(doc))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	payload, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}

	return mcp.NewToolResultText(string(payload)), nil
}

func (s *Server) handleValidateFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var responseText string
	if err := s.extractor.ValidateFile(path); err != nil {
		responseText = fmt.Sprintf("Validation failed for %s: %v", path, err)
	} else {
		responseText = fmt.Sprintf("File %s is a valid, readable PDF", path)
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleSearchDirectory(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	args := request.GetArguments()

	directory := s.config.DocumentDirectory // default
	if dir, ok := args["directory"].(string); ok && dir != "" {
		directory = dir
	}

	query := ""
	if q, ok := args["query"].(string); ok {
		query = q
	}

	result, err := s.search.SearchDirectory(directory, query)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var responseText string
	if result.TotalCount == 0 {
		responseText = fmt.Sprintf("No PDF files found in directory: %s", result.Directory)
		if result.SearchQuery != "" {
			responseText += fmt.Sprintf(" (searched for: %s)", result.SearchQuery)
		}
	} else {
		responseText = s.formatSearchDirectoryResult(result)
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleServerInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	files, err := s.search.FindInDirectoryLimited(s.config.DocumentDirectory, 25)
	if err != nil {
		// Directory problems should not make server info fail outright
		files = nil
	}

	responseText := s.formatServerInfo(files)
	return mcp.NewToolResultText(responseText), nil
}

// Formatting methods
func (s *Server) formatSearchDirectoryResult(result *docsource.SearchResult) string {
	text := fmt.Sprintf("Found %d PDF file(s) in directory: %s\n", result.TotalCount, result.Directory)
	if result.SearchQuery != "" {
		text += fmt.Sprintf("Search query: %s\n", result.SearchQuery)
	}
	text += "\nFiles:\n"

	for i, file := range result.Files {
		text += fmt.Sprintf("%d. %s\n", i+1, file.Name)
		text += fmt.Sprintf("   Path: %s\n", file.Path)
		text += fmt.Sprintf("   Size: %d bytes\n", file.Size)
		text += fmt.Sprintf("   Modified: %s\n", file.ModifiedTime)
		if i < len(result.Files)-1 {
			text += "\n"
		}
	}

	return text
}

func (s *Server) formatServerInfo(files []docsource.FileInfo) string {
	text := fmt.Sprintf("📋 %s v%s - Server Information\n", s.config.ServerName, s.config.Version)
	text += fmt.Sprintf("📁 Default Directory: %s\n", s.config.DocumentDirectory)
	text += fmt.Sprintf("📏 Max File Size: %d MB\n\n", s.config.MaxFileSize/(1024*1024))

	// Directory contents
	if len(files) > 0 {
		text += fmt.Sprintf("📂 Directory Contents (%d PDF files found):\n", len(files))
		for i, file := range files {
			if i >= 10 { // Limit to first 10 files for readability
				text += fmt.Sprintf("   ... and %d more files\n", len(files)-10)
				break
			}
			text += fmt.Sprintf("   %d. %s (%d bytes)\n", i+1, file.Name, file.Size)
		}
		text += "\n"
	} else {
		text += "📂 Directory Contents: No PDF files found in default directory\n\n"
	}

	// Available tools
	text += "🛠️  Available Tools:\n"
	for _, name := range []string{
		"document_structure_file",
		"document_structure_json",
		"document_validate_file",
		"document_search_directory",
		"document_server_info",
	} {
		text += fmt.Sprintf("\n• %s\n", name)
		text += fmt.Sprintf("  %s\n", descriptions.GetToolDescription(name))
	}

	return text
}

// Run starts the MCP server in the configured mode
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsServerMode() {
		return s.runServerMode(ctx)
	}
	return s.runStdioMode(ctx)
}

// runStdioMode runs the server in stdio mode
func (s *Server) runStdioMode(_ context.Context) error {
	if s.config.IsDebug() {
		log.Printf("Starting document structure MCP server in stdio mode")
		log.Printf("Document directory: %s", s.config.DocumentDirectory)
	}

	// Use the mark3labs/mcp-go server.ServeStdio function
	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// runServerMode runs the server in HTTP server mode
func (s *Server) runServerMode(ctx context.Context) error {
	log.Printf("Starting document structure MCP server on %s", s.config.Address())

	sse := server.NewSSEServer(s.mcpServer)
	if err := sse.Start(s.config.Address()); err != nil {
		return fmt.Errorf("failed to serve HTTP: %w", err)
	}
	return nil
}
