// Package catalog holds the fixed library of project templates the generator
// draws from, grouped by domain tag. Templates carry an authored impact score
// used verbatim by the ranker.
package catalog

// Domain tags, in the canonical order templates are walked when backfilling.
var DomainOrder = []string{
	"ai_ml",
	"web_development",
	"data_science",
	"mobile_development",
}

// Template is a catalog entry: a Candidate plus its authored impact score.
type Template struct {
	Candidate
	Impact float64
}

// ByDomain returns the templates registered under the given domain tag.
// The returned slice is shared; callers must not mutate it.
func ByDomain(tag string) []Template {
	return templates[tag]
}

// Domains returns the canonical domain tag order.
func Domains() []string {
	return DomainOrder
}

// Has reports whether the catalog knows the given domain tag.
func Has(tag string) bool {
	_, ok := templates[tag]
	return ok
}

var templates = map[string][]Template{
	"ai_ml": {
		{
			Candidate: Candidate{
				Title:         "Intelligent Document Processing System",
				Description:   "Build an AI system that can automatically extract, classify, and summarize information from various document types",
				Domain:        "ai_ml",
				Difficulty:    DifficultyIntermediate,
				Technologies:  []string{"Python", "OpenAI API", "FastAPI", "React"},
				EstimatedTime: "4-6 weeks",
			},
			Impact: 8.5,
		},
		{
			Candidate: Candidate{
				Title:         "Multi-Modal Content Creator",
				Description:   "Develop an AI agent that creates content across text, images, and audio based on user prompts",
				Domain:        "ai_ml",
				Difficulty:    DifficultyAdvanced,
				Technologies:  []string{"Python", "Stable Diffusion", "GPT-4", "Audio APIs"},
				EstimatedTime: "6-8 weeks",
			},
			Impact: 9.0,
		},
		{
			Candidate: Candidate{
				Title:         "AI-Powered Recipe Recommender",
				Description:   "Create a machine learning system that recommends recipes based on dietary preferences and available ingredients",
				Domain:        "ai_ml",
				Difficulty:    DifficultyIntermediate,
				Technologies:  []string{"Python", "scikit-learn", "pandas", "Flask"},
				EstimatedTime: "4-6 weeks",
			},
			Impact: 7.5,
		},
	},
	"web_development": {
		{
			Candidate: Candidate{
				Title:         "Real-time Collaboration Platform",
				Description:   "Create a platform for teams to collaborate on projects with live editing, video calls, and task management",
				Domain:        "web_development",
				Difficulty:    DifficultyIntermediate,
				Technologies:  []string{"React", "Node.js", "Socket.io", "MongoDB"},
				EstimatedTime: "6-8 weeks",
			},
			Impact: 8.0,
		},
		{
			Candidate: Candidate{
				Title:         "Progressive Web App for Local Services",
				Description:   "Build a PWA that connects local service providers with customers, featuring offline functionality",
				Domain:        "web_development",
				Difficulty:    DifficultyIntermediate,
				Technologies:  []string{"React", "Service Workers", "IndexedDB", "Geolocation API"},
				EstimatedTime: "5-7 weeks",
			},
			Impact: 7.5,
		},
		{
			Candidate: Candidate{
				Title:         "Personal Finance Tracker",
				Description:   "Build a web application to track income, expenses, and savings goals with data visualization",
				Domain:        "web_development",
				Difficulty:    DifficultyBeginner,
				Technologies:  []string{"Python", "Flask", "SQLite", "Chart.js"},
				EstimatedTime: "3-4 weeks",
			},
			Impact: 7.0,
		},
		{
			Candidate: Candidate{
				Title:         "Weather Dashboard with API Integration",
				Description:   "Build a responsive dashboard that displays weather data from multiple sources with interactive maps",
				Domain:        "web_development",
				Difficulty:    DifficultyBeginner,
				Technologies:  []string{"JavaScript", "React", "APIs", "CSS"},
				EstimatedTime: "2-3 weeks",
			},
			Impact: 6.5,
		},
	},
	"data_science": {
		{
			Candidate: Candidate{
				Title:         "Predictive Analytics Dashboard",
				Description:   "Create an interactive dashboard that provides predictive insights for business metrics",
				Domain:        "data_science",
				Difficulty:    DifficultyIntermediate,
				Technologies:  []string{"Python", "Streamlit", "Plotly", "Pandas"},
				EstimatedTime: "4-6 weeks",
			},
			Impact: 8.0,
		},
		{
			Candidate: Candidate{
				Title:         "Automated Report Generation System",
				Description:   "Build a system that automatically generates comprehensive reports from raw data sources",
				Domain:        "data_science",
				Difficulty:    DifficultyIntermediate,
				Technologies:  []string{"Python", "Pandas", "Matplotlib", "Jinja2"},
				EstimatedTime: "3-5 weeks",
			},
			Impact: 7.0,
		},
		{
			Candidate: Candidate{
				Title:         "Stock Price Predictor",
				Description:   "Build an ML model to predict stock prices using historical data and market indicators",
				Domain:        "data_science",
				Difficulty:    DifficultyAdvanced,
				Technologies:  []string{"Python", "TensorFlow", "pandas", "matplotlib"},
				EstimatedTime: "6-8 weeks",
			},
			Impact: 8.5,
		},
	},
	"mobile_development": {
		{
			Candidate: Candidate{
				Title:         "AR-Enhanced Learning App",
				Description:   "Develop a mobile app that uses augmented reality to make learning interactive and engaging",
				Domain:        "mobile_development",
				Difficulty:    DifficultyAdvanced,
				Technologies:  []string{"React Native", "ARKit/ARCore", "Firebase"},
				EstimatedTime: "8-10 weeks",
			},
			Impact: 9.0,
		},
		{
			Candidate: Candidate{
				Title:         "Habit Tracking Companion",
				Description:   "Build a mobile app for building habits with streak tracking, reminders, and progress charts",
				Domain:        "mobile_development",
				Difficulty:    DifficultyBeginner,
				Technologies:  []string{"Flutter", "Dart", "SQLite"},
				EstimatedTime: "3-4 weeks",
			},
			Impact: 6.5,
		},
	},
}
