package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `timesheet keeps the hours employees report from the Telegram mini-app.

Model:
- Project: abbreviation (2+ chars, upper-case, unique) and full name (3+ chars, unique).
- Report: one user, one project, hours in (0, 24], comment, calendar date in the bot's timezone.
- Assignment: optional per-user subset of projects; an empty subset shows the whole catalog.
- Activity: audit log of every change (report_added, project_added, project_removed, ...).

Typical use:
1) list_projects / list_users to orient.
2) admin_stats or user_stats for totals, list_reports for rows, export_reports for CSV.
3) add_project / remove_project / assign_projects to change the catalog.
4) recent_activity to see what changed and who changed it.

Docs:
- timesheet://docs/overview
- timesheet://docs/payloads
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "timesheet://docs/overview",
		Name:        "docs_overview",
		Title:       "timesheet overview",
		Description: "How reports reach the store and what each tool reads or changes.",
		Content: `# timesheet overview

Employees open the mini-app from the bot's keyboard button. The bot builds the
launch link with three query parameters:

- ` + "`admin`" + `: "true" for administrators.
- ` + "`projects`" + `: URL-encoded JSON list of ` + "`{abbr, full}`" + ` the user may report on.
- ` + "`data`" + `: URL-encoded JSON with user statistics and, for administrators, the
  whole catalog, the user list and aggregated statistics.

The mini-app sends one JSON payload back and closes. The bot stores it, answers the
sender and notifies the other administrators about new reports.

## Tools

| tool | reads | changes |
|---|---|---|
| ` + "`list_projects`" + ` | catalog or one user's assignment | |
| ` + "`add_project`" + ` | | catalog |
| ` + "`remove_project`" + ` | | catalog |
| ` + "`assign_projects`" + ` | | user assignment |
| ` + "`list_users`" + ` | registered users | |
| ` + "`list_reports`" + ` | reports | |
| ` + "`user_stats`" + ` / ` + "`admin_stats`" + ` | aggregated reports | |
| ` + "`export_reports`" + ` | reports as CSV | |
| ` + "`recent_activity`" + ` | audit log | |
| ` + "`send_reminders`" + ` | users without a report today | sends messages |

Days filters count calendar days back from today; 0 means the whole history.
`,
	},
	{
		URI:         "timesheet://docs/payloads",
		Name:        "docs_payloads",
		Title:       "Mini-app payloads",
		Description: "JSON documents the mini-app sends to the bot.",
		Content: `# Mini-app payloads

Every payload has a ` + "`type`" + `.

## report

` + "```json" + `
{"type":"report","project":"Разработка сайта","project_abbr":"РС","hours":4,"comments":"-"}
` + "```" + `

Several projects at once:

` + "```json" + `
{"type":"report","projects":[{"project":"Маркетинг","hours":2},{"project":"Дизайн","hours":1.5}],"comments":"созвон"}
` + "```" + `

An empty comment is sent as ` + "`-`" + `.

## add_project (administrators)

` + "```json" + `
{"type":"add_project","abbr":"ДЗ","full":"Дизайн"}
` + "```" + `

## remove_project (administrators)

` + "```json" + `
{"type":"remove_project","abbr":"ДЗ"}
` + "```" + `

## assign_projects (administrators)

` + "```json" + `
{"type":"assign_projects","user_id":42,"username":"ivan","abbrs":["РС","КП"]}
` + "```" + `
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
