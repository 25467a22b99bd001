// Package types provides type definitions for the structured site content rendered by adlib.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Document is the root content document. Field order is the canonical order used when
// the document is written back out as JSON.
type Document struct {
	Hero         Hero             `json:"hero" yaml:"hero"`
	Testimonials []Testimonial    `json:"testimonials" yaml:"testimonials" validate:"dive"`
	Marquee      []string         `json:"marquee" yaml:"marquee" validate:"dive,required,trimmed"`
	Mission      Mission          `json:"mission" yaml:"mission"`
	Approach     Approach         `json:"approach" yaml:"approach"`
	Services     []Service        `json:"services" yaml:"services" validate:"dive"`
	Clients      []ClientCategory `json:"clients" yaml:"clients" validate:"dive"`
	About        About            `json:"about" yaml:"about"`
	Contact      Contact          `json:"contact" yaml:"contact"`
	Footer       Footer           `json:"footer" yaml:"footer"`
}

// Hero is the opening section: a three-line headline, a call to action and an optional
// background video in two encodings.
type Hero struct {
	Headline  []string `json:"headline" yaml:"headline" validate:"len=3,dive,required,trimmed"`
	CTA       string   `json:"cta" yaml:"cta" validate:"required,trimmed"`
	VideoWebm string   `json:"videoWebm" yaml:"videoWebm" adlib:"video" validate:"trimmed"`
	VideoMp4  string   `json:"videoMp4" yaml:"videoMp4" adlib:"video" validate:"trimmed"`
}

// Testimonial is a single client quote. Photo is optional; an empty photo renders an
// initials avatar instead.
type Testimonial struct {
	Quote string `json:"quote" yaml:"quote" validate:"required,trimmed"`
	Name  string `json:"name" yaml:"name" validate:"required,trimmed"`
	Title string `json:"title" yaml:"title" validate:"required,trimmed"`
	Photo string `json:"photo" yaml:"photo" adlib:"image" validate:"trimmed"`
}

// Mission holds the mission statement, the stat counters and the closing questions.
type Mission struct {
	Lead         string   `json:"lead" yaml:"lead" validate:"required,trimmed"`
	Body         []string `json:"body" yaml:"body" validate:"min=1,dive,required,trimmed"`
	Stats        []Stat   `json:"stats" yaml:"stats" validate:"dive"`
	CTAQuestions []string `json:"ctaQuestions" yaml:"ctaQuestions" validate:"min=1,dive,required,trimmed"`
	CTALink      string   `json:"ctaLink" yaml:"ctaLink" validate:"required,trimmed"`
}

// Stat is an animated counter. Number is authoritative; the page animates up to it.
type Stat struct {
	Number int    `json:"number" yaml:"number" validate:"gte=0"`
	Label  string `json:"label" yaml:"label" validate:"required,trimmed"`
}

// Approach describes how the firm works.
type Approach struct {
	Title          string   `json:"title" yaml:"title" validate:"required,trimmed,singlespaced"`
	Intro          string   `json:"intro" yaml:"intro" validate:"required,trimmed"`
	PrinciplesLead string   `json:"principlesLead" yaml:"principlesLead" validate:"required,trimmed"`
	Principles     []string `json:"principles" yaml:"principles" validate:"dive,required,trimmed"`
	Pillars        []Pillar `json:"pillars" yaml:"pillars" validate:"dive"`
}

// Pillar is one of the approach pillars shown with an icon.
type Pillar struct {
	Title       string `json:"title" yaml:"title" validate:"required,trimmed"`
	Description string `json:"description" yaml:"description" validate:"required,trimmed"`
}

// Service is an expandable service row.
type Service struct {
	Name         string   `json:"name" yaml:"name" validate:"required,trimmed"`
	Description  string   `json:"description" yaml:"description" validate:"required,trimmed"`
	ListHeading  string   `json:"listHeading" yaml:"listHeading" validate:"required,trimmed"`
	Deliverables []string `json:"deliverables" yaml:"deliverables" validate:"dive,required,trimmed"`
}

// ClientCategory groups clients under a heading. Category may contain newlines, which
// render as line breaks.
type ClientCategory struct {
	Category string   `json:"category" yaml:"category" validate:"required,trimmed"`
	Clients  []Client `json:"clients" yaml:"clients" validate:"dive"`
}

// Client is a single organization served.
type Client struct {
	Name     string `json:"name" yaml:"name" validate:"required,trimmed"`
	Location string `json:"location" yaml:"location" validate:"trimmed"`
}

// About is the founder biography. Bio paragraphs are rich text.
type About struct {
	Name  string   `json:"name" yaml:"name" validate:"required,trimmed"`
	Role  string   `json:"role" yaml:"role" validate:"required,trimmed"`
	Lead  string   `json:"lead" yaml:"lead" validate:"required,trimmed"`
	Bio   []string `json:"bio" yaml:"bio" adlib:"richtext" validate:"dive,required,trimmed"`
	Photo string   `json:"photo" yaml:"photo" adlib:"image" validate:"trimmed"`
}

// Contact details. Phone, email and location are mirrored into the footer.
type Contact struct {
	Intro    string `json:"intro" yaml:"intro" validate:"required,trimmed"`
	Phone    string `json:"phone" yaml:"phone" validate:"required,trimmed"`
	Email    string `json:"email" yaml:"email" validate:"required,email"`
	Location string `json:"location" yaml:"location" validate:"required,trimmed"`
}

// Footer holds footer-only copy.
type Footer struct {
	Tagline string `json:"tagline" yaml:"tagline" validate:"required,trimmed"`
}
