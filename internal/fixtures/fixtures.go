// Package fixtures provides sample content documents for tests.
package fixtures

import "github.com/jmegroup/adlib/internal/types"

// Document returns a fully populated, valid document. Each call returns a fresh copy so
// tests may mutate it freely.
func Document() *types.Document {
	return &types.Document{
		Hero: types.Hero{
			Headline:  []string{"Our mission", "is advancing", "yours."},
			CTA:       "Start the Conversation",
			VideoWebm: "images/hero-bg.webm",
			VideoMp4:  "images/hero-bg.mp4",
		},
		Testimonials: []types.Testimonial{
			{
				Quote: "We closed our capital campaign six months early.",
				Name:  "Patricia Alvarez",
				Title: "Executive Director, Hill Country Food Alliance",
				Photo: "images/testimonial-0.jpg",
			},
			{
				Quote: "She listens first -- then asks the question nobody thought to ask.",
				Name:  "Marcus Greene",
				Title: "Board Chair, Eastside Youth Arts",
			},
		},
		Marquee: []string{"Strategic Planning", "Resource Development", "Community Relations"},
		Mission: types.Mission{
			Lead: "JME Group is a boutique consulting firm for nonprofit organizations.",
			Body: []string{
				"We partner with leaders who are ready to grow.",
				"Every engagement begins with listening.",
			},
			Stats: []types.Stat{
				{Number: 30, Label: "Years of experience"},
				{Number: 1200, Label: "Volunteers trained"},
			},
			CTAQuestions: []string{
				"Is your organization ready to grow?",
				"Do you know where your next gift is coming from?",
				"Are you ready to prove it?",
			},
			CTALink: "Let's talk",
		},
		Approach: types.Approach{
			Title:          "Our Approach Matters",
			Intro:          "Advancement is a culture, built one relationship at a time.",
			PrinciplesLead: "Our work is guided by a few principles:",
			Principles:     []string{"Listen before you plan.", "Measure what matters."},
			Pillars: []types.Pillar{
				{Title: "Listening", Description: "Interviews, surveys and site visits."},
				{Title: "Building", Description: "A roadmap your staff and board can own."},
			},
		},
		Services: []types.Service{
			{
				Name:         "Strategic Planning",
				Description:  "A clear, shared direction for your board and staff.",
				ListHeading:  "Deliverables include:",
				Deliverables: []string{"Stakeholder interviews", "Board retreat", "Three-year plan"},
			},
			{
				Name:         "Resource Development",
				Description:  "Revenue from individuals, foundations & partners.",
				ListHeading:  "Deliverables include:",
				Deliverables: []string{"Development audit"},
			},
		},
		Clients: []types.ClientCategory{
			{
				Category: "Health &\nHuman Services",
				Clients: []types.Client{
					{Name: "Hill Country Food Alliance", Location: "Austin, TX"},
					{Name: "Capital Area Family Shelter", Location: "Round Rock, TX"},
				},
			},
			{
				Category: "Arts &\nEducation",
				Clients:  []types.Client{{Name: "Eastside Youth Arts", Location: "Austin, TX"}},
			},
		},
		About: types.About{
			Name: "Jeanne-Marie Ellis",
			Role: "Founder & Principal",
			Lead: "Three decades helping nonprofits turn intentions into results.",
			Bio: []string{
				"She led advancement at two of Austin's largest agencies.",
				`She wrote <em>Asking Well</em> for <a href="https://example.org/afp" target="_blank">AFP</a>.`,
			},
			Photo: "images/jeanne-marie-ellis.jpg",
		},
		Contact: types.Contact{
			Intro:    "Tell us about your organization.",
			Phone:    "(512) 555-0142",
			Email:    "hello@jmegroup.org",
			Location: "Austin, Texas",
		},
		Footer: types.Footer{Tagline: "Our mission is advancing yours."},
	}
}
