package geminiservice

import (
	"errors"
	"strings"
	"unicode/utf8"
)

/* =================================================================================
							RESPONSE CLASSIFICATION
=================================================================================*/

// ResultKind classifies a generation outcome.
type ResultKind int

const (
	// Ok means the model produced usable text.
	Ok ResultKind = iota
	// Refused means the model declined or the request was safety-blocked.
	Refused
	// Empty means the model returned nothing usable.
	Empty
	// Transient means the call failed for an operational reason and may
	// succeed later.
	Transient
)

// User-facing replacement messages for non-Ok outcomes.
const (
	MsgHighDemand   = "I'm currently experiencing high demand. Please try again in a few minutes."
	MsgGuidelines   = "I can't provide a response to that request due to content guidelines. Please try rephrasing your question."
	MsgConnectivity = "I'm having trouble connecting right now. Please check your connection and try again."
	MsgUnavailable  = "I'm temporarily unavailable. Please try again shortly."
	MsgNothingToSay = "I don't have a response for that right now. Please try asking in a different way."
)

// refusalPhrases are model-side refusal markers looked for in otherwise
// successful responses.
var refusalPhrases = []string{
	"i cannot",
	"i can't",
	"i am not able to",
	"i'm not able to",
	"as an ai",
}

// Result is a classified generation outcome. Text always holds something
// presentable to the user.
type Result struct {
	Kind ResultKind
	Text string
}

// Classify maps a raw generation outcome to a safe user-facing result.
// It never returns an error to the caller; failures become canned
// transient or refusal messages.
func Classify(text string, err error) Result {
	if err != nil {
		var blocked *BlockedError
		if errors.As(err, &blocked) {
			return Result{Kind: Refused, Text: MsgGuidelines}
		}
		msg := strings.ToLower(err.Error())
		switch {
		case strings.Contains(msg, "quota") || strings.Contains(msg, "limit"):
			return Result{Kind: Transient, Text: MsgHighDemand}
		case strings.Contains(msg, "safety") || strings.Contains(msg, "blocked"):
			return Result{Kind: Refused, Text: MsgGuidelines}
		case strings.Contains(msg, "network") || strings.Contains(msg, "connection"):
			return Result{Kind: Transient, Text: MsgConnectivity}
		default:
			return Result{Kind: Transient, Text: MsgUnavailable}
		}
	}

	if strings.TrimSpace(text) == "" {
		return Result{Kind: Empty, Text: MsgNothingToSay}
	}

	lower := strings.ToLower(text)
	for _, phrase := range refusalPhrases {
		if strings.HasPrefix(lower, phrase) {
			return Result{Kind: Refused, Text: MsgGuidelines}
		}
	}

	return Result{Kind: Ok, Text: text}
}

/* =================================================================================
							CHAT REPLY FORMATTING
=================================================================================*/

// chatReplyMax is the hard length bound applied to chat replies before the
// truncation marker is appended.
const chatReplyMax = 480

// strippedPrefixes are boilerplate lead-ins removed from chat replies.
// Matching is case-insensitive.
var strippedPrefixes = []string{
	"RESPONSE:",
	"Here's my response:",
	"Based on the context:",
	"According to the information provided:",
	"As FitMind AI,",
	"As your FitMind AI assistant,",
}

// FormatChatReply normalizes a chat reply for display: strips boilerplate
// prefixes, collapses surrounding whitespace, truncates long replies at a
// sentence boundary, and guarantees terminal punctuation. The function is
// idempotent: formatting an already-formatted reply returns it unchanged.
func FormatChatReply(text string) string {
	reply := strings.TrimSpace(text)

	for changed := true; changed; {
		changed = false
		for _, prefix := range strippedPrefixes {
			if len(reply) >= len(prefix) && strings.EqualFold(reply[:len(prefix)], prefix) {
				reply = strings.TrimSpace(reply[len(prefix):])
				changed = true
			}
		}
	}

	if reply == "" {
		return MsgNothingToSay
	}

	if len(reply) > chatReplyMax+20 {
		reply = truncateAtSentence(reply, chatReplyMax)
	}

	if !strings.HasSuffix(reply, ".") && !strings.HasSuffix(reply, "!") && !strings.HasSuffix(reply, "?") {
		reply += "."
	}

	return reply
}

// truncateAtSentence cuts text to at most max bytes, preferring the last
// sentence boundary in the first max bytes, and marks the cut with " ...".
// When a truncated reply already ends with the marker it is left alone so
// formatting stays idempotent.
func truncateAtSentence(text string, max int) string {
	for max > 0 && !utf8.RuneStart(text[max]) {
		max--
	}
	cut := text[:max]
	boundary := -1
	for _, punct := range []string{". ", "! ", "? "} {
		if i := strings.LastIndex(cut, punct); i > boundary {
			boundary = i
		}
	}
	if boundary > 0 {
		return cut[:boundary+1] + " ..."
	}
	return strings.TrimSpace(cut) + "..."
}

/* =================================================================================
							INSIGHT POST-PROCESSING
=================================================================================*/

// FallbackInsight is shown when the model produced no usable insight lines.
const FallbackInsight = "Keep tracking your activities and measurements to see insights here!"

// SplitInsightLines splits raw model output into clean insight lines,
// dropping blank lines and leading bullet markers. An output with no
// usable lines yields the single fallback insight.
func SplitInsightLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*• \t")
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return []string{FallbackInsight}
	}
	return lines
}
