package corpus

// Emojis and Specials are appended to every message so each send exercises
// non-BMP input and typographic punctuation.
var (
	Emojis   = []string{"🤖", "🌍", "✨", "🧠", "🚀", "💬", "📝", "🎯", "🔍", "📚", "😅", "🙃", "🧩", "⚙️", "📡"}
	Specials = []string{"—", "…", "✓", "→", "©", "™", "§", "¤"}
)

var tones = []string{"filosofisk", "teknisk", "humoristisk", "pedagogisk", "refleksiv"}

type phrasebook struct {
	intros     map[string]string
	statements []string
	closures   []string
	simple     []string
}

var phrasebooks = map[Language]phrasebook{
	Norwegian: {
		intros: map[string]string{
			"filosofisk":  "Noen ganger undrer jeg meg over",
			"teknisk":     "Systemet viser tydelig at",
			"humoristisk": "Ærlig talt, det er nesten komisk hvordan",
			"pedagogisk":  "La oss se nærmere på hvordan",
			"refleksiv":   "Jeg har ofte tenkt på hvordan",
		},
		statements: []string{
			"språklige nyanser kan endre hele meningen med en interaksjon",
			"agentens respons avhenger av kontekst og intensjon",
			"feilhåndtering bør være like elegant som hovedflyten",
			"oversettelser krever mer enn bare ord—de krever forståelse",
			"det deterministiske oppsettet gir trygghet for alle parter",
		},
		closures: []string{
			"og det er nettopp derfor vi må tenke helhetlig.",
			"slik at systemet kan tilpasses virkelige behov.",
			"og det gjør hele forskjellen i praksis.",
			"som gir rom for både kontroll og fleksibilitet.",
			"og da får vi en mye bedre brukeropplevelse.",
		},
		simple: []string{
			"Hei! Hvordan har du det i dag? Jeg håper alt er bra med deg og dine",
			"Takk for hjelpen! Det setter jeg pris på og det hjelper meg mye",
			"Kan du hjelpe meg med å forstå dette bedre? Jeg trenger mer informasjon",
			"Det høres interessant ut! Fortell mer om dette emnet og dine tanker",
			"Jeg ønsker å lære noe nytt om dette emnet som interesserer meg veldig",
			"Tusen takk for svaret! Det var veldig nyttig og informativt for meg",
			"Hva synes du om denne tilnærmingen? Jeg er nysgjerrig på ditt perspektiv",
			"Kan du forklare dette på en enklere måte? Jeg sliter med å forstå det",
			"Dette er akkurat det jeg trengte å vite! Takk for den gode forklaringen",
			"Har du noen tips om hvordan jeg kan forbedre dette? Jeg vil gjerne lære mer",
		},
	},
	English: {
		intros: map[string]string{
			"filosofisk":  "Sometimes I wonder about",
			"teknisk":     "The system clearly demonstrates that",
			"humoristisk": "Honestly, it's almost funny how",
			"pedagogisk":  "Let's take a closer look at how",
			"refleksiv":   "I've often thought about how",
		},
		statements: []string{
			"linguistic nuance can shift the entire meaning of an interaction",
			"the agent's response depends on context and intent",
			"error handling should be as elegant as the main flow",
			"translation requires more than words—it demands understanding",
			"a deterministic setup gives confidence to all participants",
		},
		closures: []string{
			"and that's exactly why we need to think holistically.",
			"so the system can adapt to real-world needs.",
			"and that makes all the difference in practice.",
			"which allows for both control and flexibility.",
			"and then we get a much better user experience.",
		},
		simple: []string{
			"Hi! How are you doing today? I hope everything is going well for you",
			"Thanks for the help! I really appreciate it and it makes a big difference",
			"Can you help me understand this better? I need more detailed information",
			"That sounds interesting! Tell me more about this topic and your thoughts",
			"I'd like to learn something new about this topic that really interests me",
			"Thank you so much for the answer! That was very helpful and informative",
			"What do you think about this approach? I'm curious about your perspective",
			"Can you explain this in a simpler way? I'm having trouble understanding it",
			"This is exactly what I needed to know! Thanks for the great explanation",
			"Do you have any tips on how I can improve this? I'd love to learn more",
		},
	},
}
