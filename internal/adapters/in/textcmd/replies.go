package textcmd

import (
	"fmt"
	"strings"

	"porterage/internal/core/application/usecases/queries"
	"porterage/internal/core/domain/model/porter"
	"porterage/internal/core/domain/model/request"
)

const (
	ThrottledReply  = "⏳ Please wait a moment before sending another message."
	UnexpectedReply = "⚠️ An unexpected error occurred. Try again or use a valid command.\n\n👋 Send 'help' to see command list."
	FormatReply     = "❌ Format error. Use: request 10/F to 3/F *"

	signedInReply        = "✅ Signed in as porter. You'll now receive assignments."
	alreadySignedInReply = "✅ You are already signed in as porter."
	signedOutReply       = "👋 Signed out. You won't be auto-assigned."
	notSignedInReply     = "👋 You were not signed in."
	noPortersReply       = "🛛 No porters are currently signed in."
	emptyQueueReply      = "📜 No active requests in the queue."
	pickupNotSignedIn    = "❌ Only signed-in porters can pick up requests."
	pickupBusyReply      = "⚠️ You are already assigned to a request."
	cancelDeniedReply    = "❌ You are not authorized to cancel this request."
	unknownSenderReply   = "❌ Your number could not be read. Try again."
)

// HelpText lists every command.
const HelpText = "👋 Available commands:\n" +
	"• request 10/F to 3/F * - new request (* or urgent marks it urgent)\n" +
	"• queue - view active requests\n" +
	"• sign in / sign out - join or leave porter pool\n" +
	"• porters - list signed-in porters\n" +
	"• pickup <ID> - accept request\n" +
	"• start <ID> - begin transport\n" +
	"• done <ID> - mark complete\n" +
	"• cancel <ID> - cancel a request you made or are assigned to\n" +
	"• cancel pickup <ID> - put a picked-up request back in the queue\n" +
	"• undo <ID> - return a request to waiting"

// shortIdentity keeps the last ten characters, enough to recognise a phone number.
func shortIdentity(identity string) string {
	r := []rune(identity)
	if len(r) <= 10 {
		return identity
	}
	return string(r[len(r)-10:])
}

func statusLabel(s request.Status) string {
	switch s {
	case request.Waiting:
		return "Waiting"
	case request.PickedUp:
		return "Pick up"
	case request.InTransit:
		return "Start transport"
	case request.Finished:
		return "Finished"
	default:
		return s.String()
	}
}

func availabilityLabel(a porter.Availability) string {
	if a == porter.Busy {
		return "unavailable"
	}
	return "available"
}

func createdReply(r *request.TransportRequest) string {
	reply := fmt.Sprintf("✅ Request created: %s ➞ %s (ID: %d)", r.From(), r.To(), r.ID())
	if r.Priority() == request.High {
		reply += " 🚨 Urgent"
	}
	return reply
}

func queueReply(active []queries.RequestResponse) string {
	if len(active) == 0 {
		return emptyQueueReply
	}

	var b strings.Builder
	b.WriteString("📋 Active Requests:")
	for _, r := range active {
		fmt.Fprintf(&b, "\n🆔 %d | %s ➞ %s | %s", r.ID, r.From, r.To, statusLabel(r.Status))
		if r.Priority == request.High {
			b.WriteString(" 🚨")
		}
		fmt.Fprintf(&b, " ⏰ %s", r.CreatedAt.Format("15:04"))
	}
	return b.String()
}

func portersReply(porters []queries.PorterResponse) string {
	if len(porters) == 0 {
		return noPortersReply
	}

	lines := make([]string, 0, len(porters)+1)
	lines = append(lines, "🧑‍🔧 Active Porters:")
	for _, p := range porters {
		lines = append(lines, fmt.Sprintf("%s - %s", shortIdentity(p.Identity), availabilityLabel(p.Availability)))
	}
	return strings.Join(lines, "\n")
}
