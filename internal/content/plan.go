package content

// Week is one block of the battle plan. Tasks are rendered as a checklist.
type Week struct {
	Label     string   `json:"label"`
	Title     string   `json:"title"`
	Objective string   `json:"objective"`
	Tasks     []string `json:"tasks"`
}

type Phase struct {
	Title string `json:"title"`
	Weeks []Week `json:"weeks"`
}

const (
	PlanTitle   = "OPERATIONAL BLUEPRINT: Q1 2026"
	PlanMandate = "This is not a suggestion. This is the script. Deviate and you fail."
)

var BattlePlan = []Phase{
	{
		Title: "PHASE 1: FEB 2026 (FOUNDATION & VALIDATION)",
		Weeks: []Week{
			{
				Label:     "WEEK 1",
				Title:     "THE IDENTITY SHIFT & OFFER",
				Objective: "Establish the vessel. Define the offer.",
				Tasks: []string{
					"LEGAL/ADMIN: Separate personal and business finances.",
					"BRAND: Launch the persona. Post one high-quality reel.",
					"OFFER: Define the AI support agent package (setup fee 2000 QAR, retainer 500 QAR).",
					"DATA: Scrape 50 leads (Qatar SMEs: gyms, real estate, clinics).",
					"TECH: Build a demo agent to show on calls.",
				},
			},
			{
				Label:     "WEEK 2",
				Title:     "AGGRESSIVE OUTREACH",
				Objective: "Break the silence. Get rejected.",
				Tasks: []string{
					"KPI: 100 cold DMs/emails sent. 20 cold calls made.",
					"SCRIPT: A/B test a direct pitch against a free audit.",
					"MEETINGS: Book 3 demos.",
					"CONTENT: Document the struggle.",
				},
			},
			{
				Label:     "WEEK 3",
				Title:     "FIRST BLOOD",
				Objective: "Proof of concept. Money changes hands.",
				Tasks: []string{
					"CLOSE: Sign client #1, even at a discount, for the case study.",
					"DELIVERY: Deploy the agent for client #1.",
					"SYSTEM: Write a client onboarding checklist.",
				},
			},
			{
				Label:     "WEEK 4",
				Title:     "REFINEMENT",
				Objective: "Iron out bugs. Collect testimonial.",
				Tasks: []string{
					"REVIEW: Fix bugs in client #1's agent.",
					"SOCIAL PROOF: Get a video testimonial from client #1.",
					"OUTREACH: Use the testimonial to hit 50 new leads.",
				},
			},
		},
	},
	{
		Title: "PHASE 2: MAR 2026 (SYSTEMIZATION & SCALE)",
		Weeks: []Week{
			{
				Label:     "WEEK 5",
				Title:     "AUTOMATION",
				Objective: "Remove yourself from the loop.",
				Tasks: []string{
					"TECH: Automate lead scraping.",
					"HIRE: Find a commission-only setter or a VA for data entry.",
					"PRICE: Raise the setup fee to 4,000 QAR.",
				},
			},
			{
				Label:     "WEEK 6-8",
				Title:     "VELOCITY",
				Objective: "Velocity.",
				Tasks: []string{
					"KPI: 10k QAR/month run rate.",
					"INPUT: 200 leads contacted per week.",
					"BRAND: Publish a long-form video on running the agency.",
				},
			},
		},
	},
}
