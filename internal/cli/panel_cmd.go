// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// panel_cmd.go - Role-scoped dashboard command.
//
// "camila panel" detects the signed-in account's role and renders the
// matching dashboard: expert, institutional admin, or superadmin.
// Regular users are pointed back to the chat. --watch keeps the expert
// panel polling for live updates.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/garcessebastian/camila-tui/internal/model"
	"github.com/garcessebastian/camila-tui/internal/panel"
	"github.com/garcessebastian/camila-tui/internal/util"
)

const panelWidth = 64

// HandlePanel renders the dashboard for the account's role.
func HandlePanel(app *App, args Args) int {
	account := app.Ctrl.Account()
	if account == nil {
		fmt.Fprintln(os.Stderr, warningStyle.Render("Inicia sesión para ver un panel."))
		return 1
	}

	switch app.Ctrl.Destination() {
	case model.DestExpertPanel:
		return expertPanel(app, account, args)
	case model.DestAdminPanel:
		return adminPanel(app, args)
	case model.DestInstitutionalPanel:
		return institutionalPanel(app, args)
	default:
		fmt.Println(infoStyle.Render("Tu cuenta no tiene panel; usa `camila` para chatear."))
		return 0
	}
}

// =============================================================================
// EXPERT PANEL
// =============================================================================

func expertPanel(app *App, account *model.Account, args Args) int {
	ctx := context.Background()
	dash, err := panel.LoadExpertDashboard(ctx, app.Client, account.InstitutionID, 7)
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		return 1
	}

	title := "Panel de experto"
	if dash.Institution != nil {
		title += " · " + dash.Institution.Name
	}
	fmt.Println(app.Theme.PanelTitle.Render(title))
	fmt.Println()
	fmt.Printf("Pacientes: %d   Activos: %d   Sesiones hoy: %d\n\n",
		dash.Stats.TotalPatients, dash.Stats.ActivePatients, dash.Stats.SessionsToday)

	for _, chart := range dash.Charts {
		fmt.Println(panel.RenderChart(chart, panelWidth))
		fmt.Println()
	}

	// Best effort: keyword detection summary, skipped when the expert
	// has not configured any terms.
	if stats, err := app.Client.KeywordStats(ctx); err == nil && stats.Total > 0 {
		fmt.Printf("Palabras clave: %d configuradas, %d coincidencias\n\n", stats.Total, stats.Matches)
	}

	printPatientTable(app, dash.Schema, dash.Patients)

	if reports, err := app.Client.WeeklyPatientReports(ctx, 1); err == nil && len(reports) > 0 {
		fmt.Println()
		fmt.Println(app.Theme.TableHeader.Render("Resumen semanal"))
		for _, r := range reports {
			risk := app.Theme.RiskStyle(r.RiskLevel).Render(r.RiskLevel.DisplayName())
			fmt.Printf("%-24s %3d sesiones  %s\n", util.TruncateWidth(r.Patient, 24), r.Sessions, risk)
		}
	}

	if args.Watch {
		return watchExpertUpdates(app, dash)
	}
	return 0
}

func printPatientTable(app *App, schema panel.Schema, patients []model.PatientRecord) {
	if len(patients) == 0 {
		fmt.Println(infoStyle.Render("Sin usuarios monitoreados."))
		return
	}

	fmt.Println(app.Theme.TableHeader.Render(strings.Join(schema.Columns, " · ")))
	now := time.Now()
	for i := range patients {
		p := &patients[i]
		segment := schema.SegmentOf(p)
		if segment == "" {
			segment = "-"
		}
		risk := app.Theme.RiskStyle(p.RiskLevel).Render(p.RiskLevel.DisplayName())
		fmt.Printf("%-24s %-16s %s  %-8s %3d  %s\n",
			util.TruncateWidth(p.Name, 24),
			util.TruncateWidth(segment, 16),
			risk,
			p.Status,
			p.SessionCount,
			infoStyle.Render(util.RelativeDate(p.LastActivity, now)))
	}
}

// watchExpertUpdates keeps polling until interrupted.
func watchExpertUpdates(app *App, dash *panel.ExpertDashboard) int {
	fmt.Println()
	fmt.Println(infoStyle.Render("Actualizando cada " + app.Config.PollInterval().String() + " (Ctrl+C para salir)..."))

	poller := panel.NewPoller(app.Client, app.Config.PollInterval())
	poller.Seed(dash.Patients)
	poller.OnUpdate(func(snap panel.Snapshot) {
		fmt.Printf("\n%s %d usuarios, %d alertas\n",
			infoStyle.Render(time.Now().Format("15:04:05")),
			len(snap.Patients), len(snap.Alerts))
		for _, alert := range snap.Alerts {
			fmt.Printf("  %s %s: %s\n",
				app.Theme.RiskStyle(alert.Level).Render("!"),
				alert.Patient, alert.Message)
		}
	})
	poller.OnError(func(err error) {
		fmt.Println(warningStyle.Render("Fallo al actualizar: " + err.Error()))
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	_ = poller.Run(ctx)
	fmt.Println()
	return 0
}

// =============================================================================
// ADMIN PANEL
// =============================================================================

func adminPanel(app *App, args Args) int {
	dash, err := panel.LoadAdminDashboard(context.Background(), app.Client)
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		return 1
	}

	fmt.Println(app.Theme.PanelTitle.Render("Panel de administración"))
	fmt.Println()
	fmt.Printf("Usuarios: %d   Instituciones: %d   Conversaciones: %d   Activos hoy: %d\n\n",
		dash.Stats.TotalUsers, dash.Stats.TotalInstitutions,
		dash.Stats.TotalChats, dash.Stats.ActiveToday)

	for _, chart := range dash.Charts {
		fmt.Println(panel.RenderChart(chart, panelWidth))
		fmt.Println()
	}

	fmt.Println(app.Theme.TableHeader.Render("Expertos"))
	for _, expert := range dash.Experts {
		fmt.Printf("%-28s %s\n", util.TruncateWidth(expert.Name, 28), infoStyle.Render(expert.Email))
	}
	return 0
}

// =============================================================================
// INSTITUTIONAL PANEL
// =============================================================================

func institutionalPanel(app *App, args Args) int {
	dash, err := panel.LoadInstitutionalDashboard(context.Background(), app.Client)
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		return 1
	}

	fmt.Println(app.Theme.PanelTitle.Render("Panel institucional · " + dash.Report.Institution.Name))
	fmt.Println()
	fmt.Printf("Usuarios monitoreados: %d   Activos: %d   Sesiones hoy: %d\n\n",
		dash.Report.Stats.TotalPatients,
		dash.Report.Stats.ActivePatients,
		dash.Report.Stats.SessionsToday)

	for _, chart := range dash.Charts {
		fmt.Println(panel.RenderChart(chart, panelWidth))
		fmt.Println()
	}
	return 0
}
