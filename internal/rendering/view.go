package rendering

import (
	"fmt"

	"github.com/jmegroup/adlib/internal/annotate"
	"github.com/jmegroup/adlib/internal/types"
)

// Leaf is an annotated leaf ready for the template.
type Leaf struct {
	Attrs    string // path, type and (for scalar list items) item markers
	Mirror   string // mirror marker for display copies elsewhere on the page
	HTML     string // encoded content, or the escaped src for media leaves
	Plain    string // attribute-escaped raw value
	Emphasis bool
}

// Item carries the markers for a record list item container.
type Item struct {
	Attrs  string
	Index  int
	Number string // 1-based, zero padded
}

// PageData is the view model executed by the page template.
type PageData struct {
	Site         Site
	Year         int
	Hero         HeroView
	Testimonials []TestimonialView
	Marquee      []Leaf
	Mission      MissionView
	Approach     ApproachView
	Services     []ServiceView
	Clients      []CategoryView
	About        AboutView
	Contact      ContactView
	Footer       FooterView
}

// HeroView is the hero section.
type HeroView struct {
	Headline  []Leaf
	CTA       Leaf
	HasVideo  bool
	VideoWebm Leaf
	VideoMp4  Leaf
}

// TestimonialView is one carousel slide.
type TestimonialView struct {
	Item     Item
	Active   bool
	Quote    Leaf
	Name     Leaf
	Title    Leaf
	Photo    Leaf
	Alt      string
	Loading  string
	Initials string
}

// MissionView is the mission section.
type MissionView struct {
	Lead      Leaf
	Body      []Leaf
	Stats     []StatView
	Questions []Leaf
	Prove     Leaf
	CTALink   Leaf
}

// StatView is one counter.
type StatView struct {
	Item   Item
	Number Leaf
	Label  Leaf
}

// ApproachView is the approach section.
type ApproachView struct {
	Title          Leaf
	Intro          Leaf
	PrinciplesLead Leaf
	Principles     []Leaf
	Pillars        []PillarView
}

// PillarView is one approach pillar.
type PillarView struct {
	Item        Item
	Icon        string
	Title       Leaf
	Description Leaf
}

// ServiceView is one service row.
type ServiceView struct {
	Item         Item
	Name         Leaf
	Description  Leaf
	ListHeading  Leaf
	Deliverables []Leaf
}

// CategoryView is one client category.
type CategoryView struct {
	Item      Item
	AnimClass string
	Category  Leaf
	Clients   []ClientView
}

// ClientView is one client entry.
type ClientView struct {
	Item     Item
	Name     Leaf
	Location Leaf
}

// AboutView is the biography section.
type AboutView struct {
	Name     Leaf
	Role     Leaf
	Lead     Leaf
	Bio      []Leaf
	Photo    Leaf
	PhotoAlt string
}

// ContactView is the contact section and its footer mirror.
type ContactView struct {
	Intro       Leaf
	Phone       Leaf
	Email       Leaf
	Location    Leaf
	PhoneDigits string
	EmailHref   string
}

// FooterView is the footer copy.
type FooterView struct {
	Tagline Leaf
}

// Client categories alternate slide directions.
var categoryAnimClasses = []string{"slide-right", "", "slide-left"}

// viewBuilder records the first error; later calls become no-ops.
type viewBuilder struct {
	err error
}

func (b *viewBuilder) leaf(p annotate.Path, value string, pos annotate.Position) Leaf {
	if b.err != nil {
		return Leaf{}
	}
	node, err := annotate.Lookup(p)
	if err != nil {
		b.err = &RenderError{Path: p.String(), Message: "unknown annotation path", Cause: err}
		return Leaf{}
	}
	if node.Kind != annotate.KindLeaf {
		b.err = &RenderError{Path: p.String(), Message: "path does not address a leaf"}
		return Leaf{}
	}

	attrs := annotate.LeafAttrs(p.String(), node.Leaf)
	if pos.Len > 0 {
		attrs += annotate.ItemAttrs(p.Parent().String(), pos.Index)
	}
	l := Leaf{
		Attrs:  attrs,
		Mirror: annotate.MirrorAttrs(p.String()),
		Plain:  annotate.EscapeAttr(value),
	}
	if node.Leaf.IsMedia() {
		l.HTML = annotate.EscapeAttr(value)
	} else {
		l.HTML = annotate.Encode(p, node.Leaf, value, pos)
	}
	return l
}

// number renders a counter: the literal value travels in data-target and the display
// text starts at zero for the page script to animate.
func (b *viewBuilder) number(p annotate.Path, n int) Leaf {
	return Leaf{
		Attrs: annotate.LeafAttrs(p.String(), annotate.TypeNumber) + annotate.NumberAttrs(n),
		HTML:  "0",
		Plain: fmt.Sprint(n),
	}
}

func (b *viewBuilder) list(p annotate.Path, values []string) []Leaf {
	leaves := make([]Leaf, len(values))
	for i, v := range values {
		leaves[i] = b.leaf(p.Index(i), v, annotate.Position{Index: i, Len: len(values)})
	}
	return leaves
}

func item(list annotate.Path, i int) Item {
	return Item{
		Attrs:  annotate.ItemAttrs(list.String(), i),
		Index:  i,
		Number: fmt.Sprintf("%02d", i+1),
	}
}

func root(name string) annotate.Path {
	return annotate.Path{{Name: name}}
}

func buildPageData(doc *types.Document, site Site, year int) (*PageData, error) {
	b := &viewBuilder{}
	data := &PageData{
		Site: Site{
			Brand:       annotate.EscapeText(site.Brand),
			Title:       annotate.EscapeAttr(site.Title),
			Description: annotate.EscapeAttr(site.Description),
		},
		Year: year,
	}

	hero := root("hero")
	data.Hero = HeroView{
		Headline:  b.list(hero.Child("headline"), doc.Hero.Headline),
		CTA:       b.leaf(hero.Child("cta"), doc.Hero.CTA, annotate.Position{}),
		HasVideo:  doc.Hero.VideoWebm != "" || doc.Hero.VideoMp4 != "",
		VideoWebm: b.leaf(hero.Child("videoWebm"), doc.Hero.VideoWebm, annotate.Position{}),
		VideoMp4:  b.leaf(hero.Child("videoMp4"), doc.Hero.VideoMp4, annotate.Position{}),
	}
	if n := len(data.Hero.Headline); n > 0 {
		data.Hero.Headline[n-1].Emphasis = true
	}

	testimonials := root("testimonials")
	for i, t := range doc.Testimonials {
		p := testimonials.Index(i)
		loading := "lazy"
		if i == 0 {
			loading = "eager"
		}
		data.Testimonials = append(data.Testimonials, TestimonialView{
			Item:     item(testimonials, i),
			Active:   i == 0,
			Quote:    b.leaf(p.Child("quote"), t.Quote, annotate.Position{}),
			Name:     b.leaf(p.Child("name"), t.Name, annotate.Position{}),
			Title:    b.leaf(p.Child("title"), t.Title, annotate.Position{}),
			Photo:    b.leaf(p.Child("photo"), t.Photo, annotate.Position{}),
			Alt:      annotate.EscapeAttr(t.Name),
			Loading:  loading,
			Initials: annotate.EscapeText(Initials(t.Name)),
		})
	}

	data.Marquee = b.list(root("marquee"), doc.Marquee)

	mission := root("mission")
	data.Mission = MissionView{
		Lead:    b.leaf(mission.Child("lead"), doc.Mission.Lead, annotate.Position{}),
		Body:    b.list(mission.Child("body"), doc.Mission.Body),
		CTALink: b.leaf(mission.Child("ctaLink"), doc.Mission.CTALink, annotate.Position{}),
	}
	stats := mission.Child("stats")
	for i, s := range doc.Mission.Stats {
		p := stats.Index(i)
		data.Mission.Stats = append(data.Mission.Stats, StatView{
			Item:   item(stats, i),
			Number: b.number(p.Child("number"), s.Number),
			Label:  b.leaf(p.Child("label"), s.Label, annotate.Position{}),
		})
	}
	if questions := b.list(mission.Child("ctaQuestions"), doc.Mission.CTAQuestions); len(questions) > 0 {
		data.Mission.Questions = questions[:len(questions)-1]
		data.Mission.Prove = questions[len(questions)-1]
	}

	approach := root("approach")
	data.Approach = ApproachView{
		Title:          b.leaf(approach.Child("title"), doc.Approach.Title, annotate.Position{}),
		Intro:          b.leaf(approach.Child("intro"), doc.Approach.Intro, annotate.Position{}),
		PrinciplesLead: b.leaf(approach.Child("principlesLead"), doc.Approach.PrinciplesLead, annotate.Position{}),
		Principles:     b.list(approach.Child("principles"), doc.Approach.Principles),
	}
	pillars := approach.Child("pillars")
	for i, p := range doc.Approach.Pillars {
		pp := pillars.Index(i)
		data.Approach.Pillars = append(data.Approach.Pillars, PillarView{
			Item:        item(pillars, i),
			Icon:        PillarIcon(i),
			Title:       b.leaf(pp.Child("title"), p.Title, annotate.Position{}),
			Description: b.leaf(pp.Child("description"), p.Description, annotate.Position{}),
		})
	}

	services := root("services")
	for i, s := range doc.Services {
		p := services.Index(i)
		data.Services = append(data.Services, ServiceView{
			Item:         item(services, i),
			Name:         b.leaf(p.Child("name"), s.Name, annotate.Position{}),
			Description:  b.leaf(p.Child("description"), s.Description, annotate.Position{}),
			ListHeading:  b.leaf(p.Child("listHeading"), s.ListHeading, annotate.Position{}),
			Deliverables: b.list(p.Child("deliverables"), s.Deliverables),
		})
	}

	clients := root("clients")
	for i, cat := range doc.Clients {
		p := clients.Index(i)
		view := CategoryView{
			Item:     item(clients, i),
			Category: b.leaf(p.Child("category"), cat.Category, annotate.Position{}),
		}
		if i < len(categoryAnimClasses) {
			view.AnimClass = categoryAnimClasses[i]
		}
		members := p.Child("clients")
		for j, c := range cat.Clients {
			cp := members.Index(j)
			view.Clients = append(view.Clients, ClientView{
				Item:     item(members, j),
				Name:     b.leaf(cp.Child("name"), c.Name, annotate.Position{}),
				Location: b.leaf(cp.Child("location"), c.Location, annotate.Position{}),
			})
		}
		data.Clients = append(data.Clients, view)
	}

	about := root("about")
	data.About = AboutView{
		Name:     b.leaf(about.Child("name"), doc.About.Name, annotate.Position{}),
		Role:     b.leaf(about.Child("role"), doc.About.Role, annotate.Position{}),
		Lead:     b.leaf(about.Child("lead"), doc.About.Lead, annotate.Position{}),
		Bio:      b.list(about.Child("bio"), doc.About.Bio),
		Photo:    b.leaf(about.Child("photo"), doc.About.Photo, annotate.Position{}),
		PhotoAlt: annotate.EscapeAttr(doc.About.Name + ", founder of " + site.Brand),
	}

	contact := root("contact")
	data.Contact = ContactView{
		Intro:       b.leaf(contact.Child("intro"), doc.Contact.Intro, annotate.Position{}),
		Phone:       b.leaf(contact.Child("phone"), doc.Contact.Phone, annotate.Position{}),
		Email:       b.leaf(contact.Child("email"), doc.Contact.Email, annotate.Position{}),
		Location:    b.leaf(contact.Child("location"), doc.Contact.Location, annotate.Position{}),
		PhoneDigits: PhoneDigits(doc.Contact.Phone),
		EmailHref:   annotate.EscapeAttr(doc.Contact.Email),
	}

	data.Footer = FooterView{
		Tagline: b.leaf(root("footer").Child("tagline"), doc.Footer.Tagline, annotate.Position{}),
	}

	if b.err != nil {
		return nil, b.err
	}
	return data, nil
}
