package descriptions

// Comprehensive tool descriptions with practical examples and use cases

const (
	// Core Tools
	DocumentStructureFileDescription = `Assemble a PDF into a single text stream with semantic structure annotations.

**When to use:** Need clean, reading-order text from a document plus offset-indexed markers for headings, footnotes, captions, references, and front/back matter.

**Why it's useful:** Goes beyond raw text extraction: repairs hyphenation and ligatures, removes repeating headers, footers, and page numbers, and annotates the remaining text with typed character ranges.

**Examples:**
• Prepare a paper for analysis: "Structure research-paper.pdf so sections and citations are addressable"
• Feed a search index: "Get clean text and heading spans from manual.pdf"
• Build a reading view: "Structure report.pdf and render the section tree as navigation"

**Common workflows:**
1. Indexing: Structure document → Split text at heading spans → Index sections separately
2. Summarization: Structure document → Drop bibliography and footnote ranges → Summarize body text
3. Navigation: Structure document → Use section tree → Jump readers to offsets

**Best practices:** Validate the file first; highlight offsets index into the returned text, so keep both together.`

	DocumentStructureJSONDescription = `Run structure assembly on pre-extracted page data supplied as JSON.

**When to use:** Extraction already happened elsewhere (a different PDF library, OCR output, a cached extraction) and only the structuring step is needed.

**Why it's useful:** Decouples structure analysis from file access, so the engine can serve callers that never touch the filesystem.

**Examples:**
• OCR pipeline: "Structure the page JSON produced by the OCR stage"
• Cached extractions: "Re-run structuring on stored page data with no file round trip"
• Cross-language callers: "Post page geometry from another service and get annotations back"

**Common workflows:**
1. Pipeline integration: Extract upstream → Post pages JSON → Consume highlights downstream
2. Re-analysis: Store extracted pages once → Re-structure as the engine improves

**Best practices:** Pages must carry per-line bounding boxes and font metadata; results degrade to plain text assembly without them.`

	DocumentValidateFileDescription = `Verify a PDF is readable and within limits before processing.

**When to use:** Before structuring any file, especially in automated workflows or when handling user uploads.

**Why it's useful:** Prevents processing errors, identifies corrupted files early, and enforces the configured size cap.

**Examples:**
• Batch safety: "Validate all PDFs in /papers/ before bulk structuring"
• Upload verification: "Check user-uploaded contract.pdf is valid before processing"

**Common workflows:**
1. Automated Processing: Validate → Structure if valid → Handle errors gracefully
2. Pre-processing Pipeline: Validate → Route bad files to quarantine

**Best practices:** Always run this first in automated workflows handling unknown PDFs.`

	DocumentSearchDirectoryDescription = `Discover and filter PDF files across directories with fuzzy name matching.

**When to use:** Need to find specific documents by name patterns, explore unknown directories, or build file inventories for batch structuring.

**Why it's useful:** Quickly locates relevant documents without manual browsing, supports fuzzy matching for partial names.

**Examples:**
• Find papers: "Search /documents/ for files containing 'survey' or '2024'"
• Inventory building: "List all PDFs in /archive/ to plan batch structuring"

**Common workflows:**
1. Targeted Processing: Search for patterns → Validate each → Structure in sequence
2. Content Discovery: Explore directory → Identify candidates → Plan extraction strategy

**Best practices:** Use fuzzy search for partial matches; results include size and modification time for prioritization.`

	// Utility Tools
	DocumentServerInfoDescription = `Get real-time server status, available tools, and system capabilities.

**When to use:** Starting work with the server, troubleshooting issues, or checking available functionality.

**Why it's useful:** Provides complete overview of server capabilities, current configuration, and directory contents for informed decision-making.

**Examples:**
• System check: "Verify server is ready and all tools are available before batch processing"
• Troubleshooting: "Check server info to diagnose why files aren't being found"

**Common workflows:**
1. Session Startup: Check server info → Verify capabilities → Plan processing approach
2. Debugging: Review server status → Check directory paths → Verify tool availability

**Best practices:** Run at start of sessions, provides cached directory contents for quick overview.`
)

// ToolDescriptions maps tool names to their comprehensive descriptions
var ToolDescriptions = map[string]string{
	"document_structure_file":   DocumentStructureFileDescription,
	"document_structure_json":   DocumentStructureJSONDescription,
	"document_validate_file":    DocumentValidateFileDescription,
	"document_search_directory": DocumentSearchDirectoryDescription,
	"document_server_info":      DocumentServerInfoDescription,
}

// GetToolDescription returns the comprehensive description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns a list of all available tool names
func GetAllToolNames() []string {
	var names []string
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	return names
}
