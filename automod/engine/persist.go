package engine

import (
	"fmt"
	"strings"
	"time"
)

func (eng *Engine) verdict(c *MessageContext) Verdict {
	v := Verdict{
		Action:  c.effects.Action,
		Reasons: c.effects.Reasons,
	}
	if v.Action != ActionAllow {
		v.NotifyText = eng.notifyText(c, v)
	}
	return v
}

// applyVerdict executes side effects for the verdict. Delete, ban, and notify
// are independent best-effort operations: each failure is logged and counted,
// none rolls back the others.
func (eng *Engine) applyVerdict(c *MessageContext, v Verdict) error {
	switch v.Action {
	case ActionAllow:
		return nil
	case ActionWarn:
		// admin heads-up only; the message stays
		eng.notifyAll(c, v)
		return nil
	case ActionBan:
		if err := eng.Executor.DeleteMessage(c.Ctx, c.Event.ChatID, c.Event.MessageID); err != nil {
			c.Logger.Error("delete message failed", "err", err)
			actionErrorCount.WithLabelValues("delete").Inc()
		}
		if err := eng.Executor.BanUser(c.Ctx, c.Event.ChatID, c.Account.Identity.ID); err != nil {
			c.Logger.Error("ban user failed", "err", err)
			actionErrorCount.WithLabelValues("ban").Inc()
		}
		eng.notifyAll(c, v)
		return nil
	}
	return fmt.Errorf("unexpected verdict action: %s", v.Action)
}

func (eng *Engine) notifyAll(c *MessageContext, v Verdict) {
	for _, n := range eng.Notifiers {
		if err := n.SendVerdict(c.Ctx, &c.Event, v); err != nil {
			c.Logger.Error("verdict notification failed", "err", err)
			actionErrorCount.WithLabelValues("notify").Inc()
		}
	}
}

func (eng *Engine) notifyText(c *MessageContext, v Verdict) string {
	loc := eng.ReportLocation
	if loc == nil {
		loc = time.UTC
	}

	user := c.Account.Identity.FirstName
	if c.Account.Identity.Username != "" {
		user = "@" + c.Account.Identity.Username
	}

	var b strings.Builder
	switch v.Action {
	case ActionBan:
		fmt.Fprintf(&b, "⛔ Забанен: %s\n", user)
	default:
		fmt.Fprintf(&b, "⚠️ Подозрительный пользователь: %s\n", user)
	}
	fmt.Fprintf(&b, "Чат: %s\n", chatLink(&c.Event))
	for _, r := range v.Reasons {
		fmt.Fprintf(&b, "Правило: %s (%s)\n", r.Category, r.Value)
	}
	if c.Event.Text != "" {
		fmt.Fprintf(&b, "Сообщение: %s\n", c.Event.Text)
	}
	fmt.Fprintf(&b, "Время: %s", time.Now().In(loc).Format("2006-01-02 15:04:05"))
	return b.String()
}

func chatLink(evt *MessageEvent) string {
	if evt.ChatUsername != "" {
		return "https://t.me/" + evt.ChatUsername
	}
	if evt.ChatTitle != "" {
		return "https://t.me/" + strings.ReplaceAll(evt.ChatTitle, " ", "")
	}
	return fmt.Sprintf("Chat ID: %d", evt.ChatID)
}
