package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kalambet/advisor/internal/advisor"
	"github.com/kalambet/advisor/internal/catalog"
	"github.com/kalambet/advisor/internal/profile"
)

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Advisor *advisor.Advisor
	Catalog []catalog.CourseRecord
}

// NewMCPServer creates an MCP server exposing the advisor's session tools and
// the course catalog resource.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"advisor",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("advisor — course recommendation sessions built from a student's marks, interests, and aspirations."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("build_profile",
			mcp.WithDescription("Build a student profile and open an advisory session. Returns the session ID and the advisor's opening recommendation."),
			mcp.WithString("marks", mcp.Description("JSON array of {subject, score} objects in marksheet order")),
			mcp.WithArray("interests", mcp.Description("Interest labels: Design, Sports, Music, Technology")),
			mcp.WithString("aspiration", mcp.Description("Career or profession the student pictures in 5-10 years")),
			mcp.WithArray("work_preference", mcp.Description("What the student prefers working with: People, Machines or Code, Creative Tools, Numbers and Data")),
			mcp.WithString("favorite_subjects", mcp.Description("Subjects the student enjoys, and why")),
			mcp.WithString("activities", mcp.Description("Extracurricular activities: clubs, projects, competitions")),
			mcp.WithString("degree_level", mcp.Description("bachelor or master; defaults to bachelor")),
		),
		mcpBuildProfile(deps),
	)

	s.AddTool(
		mcp.NewTool("ask_advisor",
			mcp.WithDescription("Send a message to an open advisory session and get the advisor's reply."),
			mcp.WithString("session_id", mcp.Description("Session ID returned by build_profile"), mcp.Required()),
			mcp.WithString("message", mcp.Description("The student's message"), mcp.Required()),
		),
		mcpAskAdvisor(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"catalog://courses",
			"Course Catalog",
			mcp.WithResourceDescription("All scraped course records as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceCatalog(deps),
	)

	return s
}

func mcpBuildProfile(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var marks []profile.Mark
		if raw := req.GetString("marks", ""); raw != "" {
			if err := json.Unmarshal([]byte(raw), &marks); err != nil {
				return mcpError(fmt.Sprintf("invalid marks JSON: %v", err)), nil
			}
		}

		interests := req.GetStringSlice("interests", nil)
		ans := profile.Answers{
			Aspiration:       req.GetString("aspiration", ""),
			WorkPreference:   req.GetStringSlice("work_preference", nil),
			FavoriteSubjects: req.GetString("favorite_subjects", ""),
			ExtraCurricular:  req.GetString("activities", ""),
			DegreeLevel:      parseDegreeLevel(req.GetString("degree_level", "")),
		}

		p := profile.Build(marks, interests, ans)
		s, reply := deps.Advisor.StartSession(ctx, p)

		b, err := json.Marshal(map[string]string{
			"session_id": s.ID,
			"reply":      reply,
		})
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal result: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpAskAdvisor(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("session_id")
		if err != nil {
			return mcpError("session_id is required"), nil
		}
		message, err := req.RequireString("message")
		if err != nil {
			return mcpError("message is required"), nil
		}

		s, ok := deps.Advisor.Session(id)
		if !ok {
			return mcpError(fmt.Sprintf("unknown session %s", id)), nil
		}

		return mcpText(deps.Advisor.Respond(ctx, s, message)), nil
	}
}

func mcpResourceCatalog(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		b, err := json.Marshal(deps.Catalog)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal catalog: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
