package services

import (
	"fmt"
	"sort"
	"strings"
)

// RenderAuditSection renders the warning list for one account as HTML.
func RenderAuditSection(accountID string, warnings []string) string {
	var items strings.Builder
	for _, w := range warnings {
		items.WriteString(fmt.Sprintf("<li>%s</li>", w))
	}

	return fmt.Sprintf(`
		<div style="background-color: #fff8f0; border-left: 5px solid #ca5010; padding: 15px; margin-bottom: 20px;">
			<h3 style="color: #ca5010; margin-top: 0; font-size: 18px;">Account %s</h3>
			<ul style="margin-bottom: 0; padding-left: 20px;">
				%s
			</ul>
		</div>
	`, accountID, items.String())
}

// RenderAuditBody renders the full HTML body for a period audit email.
// Accounts are listed in sorted order so repeated runs produce identical
// bodies.
func RenderAuditBody(period string, warnings map[string][]string) string {
	accountIDs := make([]string, 0, len(warnings))
	for id := range warnings {
		accountIDs = append(accountIDs, id)
	}
	sort.Strings(accountIDs)

	var sections strings.Builder
	for _, id := range accountIDs {
		sections.WriteString(RenderAuditSection(id, warnings[id]))
	}

	summary := fmt.Sprintf("%d account(s) flagged for audit in period %s.", len(accountIDs), period)
	if len(accountIDs) == 0 {
		summary = fmt.Sprintf("No accounts flagged for audit in period %s.", period)
	}

	return fmt.Sprintf(`
		<html>
		<body style="font-family: 'Segoe UI', sans-serif; color: #333; line-height: 1.6; background-color: #f4f4f4; margin: 0; padding: 20px;">
			<div style="max-width: 600px; margin: 0 auto; background: white; border-radius: 8px; overflow: hidden; box-shadow: 0 2px 8px rgba(0,0,0,0.1);">
				<div style="background-color: #0b6a0b; padding: 20px; text-align: center; color: white;">
					<h2 style="margin: 0;">Statement Audit Report</h2>
				</div>
				<div style="padding: 20px;">
					<p>%s</p>
					%s
				</div>
			</div>
		</body>
		</html>
	`, summary, sections.String())
}
