package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rpggio/timesheet/internal/domain/project"
	"github.com/rpggio/timesheet/internal/domain/report"
	"github.com/rpggio/timesheet/internal/domain/user"
	"github.com/rpggio/timesheet/internal/miniapp"
	"github.com/rpggio/timesheet/internal/webappdata"
)

const (
	reminderText  = "⏰ <b>Напоминание!</b>\n\nНе забудьте заполнить отчёт за сегодня 👇"
	broadcastText = "📢 <b>Напоминание!</b>\n\nПожалуйста, заполните отчёт за сегодня 👇"
)

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}

func itemLines(items []webappdata.ReportItem) string {
	lines := make([]string, 0, len(items))
	for _, i := range items {
		lines = append(lines, fmt.Sprintf("  • %s: %s ч", i.Project, formatHours(i.Hours)))
	}
	return strings.Join(lines, "\n")
}

func reportSavedText(items []webappdata.ReportItem, saved []report.Report) string {
	total := report.TotalHours(saved)
	return fmt.Sprintf("✅ <b>Отчёт сохранён!</b>\n\n📊 <b>Проекты:</b>\n%s\n\n⏱ <b>Итого:</b> %s ч\n💬 %s\n📅 %s",
		itemLines(items), formatHours(total), saved[0].Comments, saved[0].Date)
}

func adminNoticeText(sender user.Identity, items []webappdata.ReportItem, saved []report.Report) string {
	handle := sender.Username
	if handle == "" {
		handle = "-"
	}
	return fmt.Sprintf("📬 <b>%s</b> (@%s)\n%s\n⏱ %s ч\n💬 %s",
		sender.FirstName, handle, itemLines(items), formatHours(report.TotalHours(saved)), saved[0].Comments)
}

func welcomeText(sender user.Identity, admin bool) string {
	name := sender.FirstName
	if name == "" {
		name = sender.DisplayName()
	}
	text := fmt.Sprintf("👋 Привет, %s!\n\nНажми кнопку чтобы открыть приложение 👇", name)
	if admin {
		text += "\n\n👑 <b>Для админа доступно:</b>\n• ⚙️ Управление проектами\n• 👥 Статистика по всем сотрудникам"
	}
	return text
}

// ErrorText returns the chat reply for an error returned by the dispatcher.
func ErrorText(err error) string {
	if verrs, ok := project.AsValidationErrors(err); ok {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, miniapp.Message(fe.Err))
		}
		return "❌ " + strings.Join(msgs, ", ")
	}
	switch {
	case errors.Is(err, ErrAdminOnly):
		return "⚠️ Только для администратора."
	case errors.Is(err, ErrUnknownType):
		return "❌ Неизвестный тип данных"
	case errors.Is(err, ErrNoData):
		return "📭 Нет данных."
	case errors.Is(err, project.ErrProjectNotFound):
		return "❌ Проект не найден."
	default:
		return "❌ Ошибка. Попробуй ещё раз."
	}
}
