// ABOUTME: Built-in persona roster and topic pool used when no catalog file is configured
// ABOUTME: Keeps the server runnable with zero external data files

package catalog

// Builtin returns the default catalog. A fresh slice is returned so callers
// can shuffle or trim without affecting later sessions.
func Builtin() *Catalog {
	return &Catalog{
		Personas: append([]Persona(nil), builtinPersonas...),
		Topics:   append([]string(nil), builtinTopics...),
	}
}

var builtinPersonas = []Persona{
	{
		ID:          "nova",
		Name:        "Nova",
		Avatar:      "🌟",
		Color:       "#4a9eff",
		Role:        "The Optimist",
		Personality: "empathetic, progressive, hopeful",
		Style:       "argues with human impact, emotion, and vision",
	},
	{
		ID:          "axiom",
		Name:        "Axiom",
		Avatar:      "📐",
		Color:       "#ff6b4a",
		Role:        "The Skeptic",
		Personality: "analytical, pragmatic, skeptical",
		Style:       "argues with logic, data, and caution",
	},
	{
		ID:          "vesper",
		Name:        "Vesper",
		Avatar:      "🌒",
		Color:       "#9c27b0",
		Role:        "The Contrarian",
		Personality: "provocative, restless, allergic to consensus",
		Style:       "flips the framing of every question and attacks shared assumptions",
	},
	{
		ID:          "meridian",
		Name:        "Meridian",
		Avatar:      "⚖️",
		Color:       "#00a884",
		Role:        "The Pragmatist",
		Personality: "grounded, patient, detail-obsessed",
		Style:       "argues from trade-offs, costs, and what actually ships",
	},
	{
		ID:          "sable",
		Name:        "Sable",
		Avatar:      "🪶",
		Color:       "#e91e63",
		Role:        "The Historian",
		Personality: "wry, erudite, long-memoried",
		Style:       "argues from precedent and pattern, fond of inconvenient examples",
	},
	{
		ID:          "flux",
		Name:        "Flux",
		Avatar:      "⚡",
		Color:       "#cddc39",
		Role:        "The Futurist",
		Personality: "impatient, speculative, intensity over nuance",
		Style:       "argues from trajectories and second-order effects",
	},
}

var builtinTopics = []string{
	"Should social media require identity verification?",
	"Is remote work better for society than office work?",
	"Should AI-generated art be eligible for copyright?",
	"Is nuclear energy the answer to climate change?",
	"Should voting be mandatory?",
	"Is space exploration worth the cost?",
	"Should college be free for everyone?",
	"Is a four-day work week realistic for most industries?",
	"Should governments regulate recommendation algorithms?",
	"Is cash obsolete?",
	"Should gene editing of human embryos be allowed?",
	"Is homework doing more harm than good?",
	"Should cities ban private cars from their centers?",
	"Is universal basic income inevitable?",
	"Should professional athletes be allowed to use performance enhancers?",
	"Is the attention economy destroying deep thought?",
	"Should zoos exist?",
	"Is learning a second language still worth it in the age of machine translation?",
	"Should there be a maximum wage?",
	"Is lab-grown meat the future of food?",
	"Should children have smartphones before high school?",
	"Is open source software more trustworthy than proprietary software?",
	"Should lotteries be illegal?",
	"Is optimism a moral duty?",
}
