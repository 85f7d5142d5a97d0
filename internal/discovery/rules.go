package discovery

import "github.com/mj1618/chatstress/internal/model"

// Rule weights. Only their relative order matters: a known-good identifier
// outranks a whole phrase, which outranks a fragment, which outranks a bare
// control-type match.
const (
	WeightControlType = 5
	WeightClassName   = 4
	WeightPhrase      = 12
	WeightKeyword     = 3
	WeightKnown       = 15
)

// fragment is an identifier substring with its weight. Identifiers are
// compared lowercased with '-', '_' and spaces removed.
type fragment struct {
	text   string
	weight int
}

// ruleSet holds the read-only tables for one role.
type ruleSet struct {
	types       []string   // canonical control types
	excluded    []string   // types that never match (text input only)
	gated       bool       // a control-type miss rejects the node
	fragments   []fragment // first match wins; longer fragments first
	classes     []string   // class name fragments
	phrases     []string   // lowercase display-text phrases
	keywords    []string   // lowercase display-text word tokens
	knownIDs    []string
	knownTitles []string
}

var rules = map[model.Role]ruleSet{
	model.RoleTextInput: {
		types:    []string{"Edit", "Text", "Document", "Custom"},
		excluded: []string{"Button", "MenuItem", "Hyperlink"},
		fragments: []fragment{
			{"input", 10},
			{"compose", 10},
			{"textbox", 9},
			{"message", 9},
			{"prompt", 9},
			{"chat", 8},
			{"edit", 8},
			{"text", 8},
			{"enter", 8},
		},
		classes:  []string{"textbox", "edit", "input", "compose"},
		phrases:  []string{"snakk med copilot", "message copilot", "ask me anything", "type a message", "skriv en melding", "spør meg om hva som helst"},
		keywords: []string{"message", "melding", "ask", "spør", "type", "skriv", "chat", "snakk"},
		knownIDs: []string{"InputTextBox", "CIB-Compose-Box", "MessageInput", "ChatInput", "userInput"},
		knownTitles: []string{
			"Snakk med Copilot",
			"Message Copilot",
		},
	},
	model.RoleSendControl: {
		types: []string{"Button", "Custom", "MenuItem"},
		gated: true,
		fragments: []fragment{
			{"sendbutton", 10},
			{"send", 10},
			{"submit", 10},
			{"oldcomposer", 9},
			{"composer", 9},
			{"microphone", 8},
			{"mic", 8},
			{"arrow", 8},
		},
		phrases:     []string{"send", "send message", "send melding", "submit", "talk to copilot", "snakk med copilot"},
		keywords:    []string{"send", "sende", "submit", "mic", "snakk", "talk", "arrow"},
		knownIDs:    []string{"SendButton", "OldComposerMicButton", "MicButton", "submit-button"},
		knownTitles: []string{"Send", "Send message"},
	},
	model.RoleNewSession: {
		types: []string{"Button", "Custom", "MenuItem"},
		gated: true,
		fragments: []fragment{
			{"newconversation", 10},
			{"newchat", 10},
			{"newtopic", 10},
			{"home", 8},
			{"conversation", 8},
			{"new", 8},
			{"start", 8},
		},
		phrases:     []string{"ny samtale", "new conversation", "new chat", "new topic", "hjem", "home", "start over"},
		keywords:    []string{"new", "ny", "home", "hjem", "conversation", "samtale", "start", "fresh"},
		knownIDs:    []string{"HomeButton", "NewChatButton", "NewTopicButton"},
		knownTitles: []string{"Ny samtale", "New conversation", "Hjem"},
	},
}
