// Package site holds the static copy of the marketing page.
package site

type Link struct {
	Label string
	Href  string
	Aria  string
}

type Special struct {
	Name        string
	Price       string
	Description string
	Image       string
	Alt         string
}

type Testimonial struct {
	Name   string
	Rating int
	Text   string
	Avatar string
}

// Stars returns Rating entries for ranging in templates.
func (t Testimonial) Stars() []struct{} {
	if t.Rating <= 0 {
		return nil
	}
	return make([]struct{}, t.Rating)
}

type Feature struct {
	Icon  string
	Title string
	Text  string
}

type Hours struct {
	Days  string
	Hours string
}

type Contact struct {
	Street string
	City   string
	Phone  string
	Email  string
}

type Content struct {
	Name     string
	City     string
	Tagline  string
	Nav      []Link
	Specials []Special

	Testimonials []Testimonial

	AboutParagraphs []string
	Features        []Feature
	Since           string

	FooterLinks []Link
	Contact     Contact
	Hours       []Hours
	Social      []Link
	Copyright   string
}

// Default is the Little Lemon content.
func Default() Content {
	return Content{
		Name:    "Little Lemon",
		City:    "Chicago",
		Tagline: "We are a family owned Mediterranean restaurant, focused on traditional recipes served with a modern twist.",
		Nav: []Link{
			{Label: "Home", Href: "#home", Aria: "Go to home section"},
			{Label: "About", Href: "#about", Aria: "Go to about section"},
			{Label: "Menu", Href: "#menu", Aria: "Go to menu section"},
			{Label: "Reservations", Href: "#reservations", Aria: "Go to reservations section"},
			{Label: "Order Online", Href: "#order-online", Aria: "Go to order online section"},
			{Label: "Login", Href: "#login", Aria: "Go to login section"},
		},
		Specials: []Special{
			{
				Name:        "Greek Salad",
				Price:       "$12.99",
				Description: "Refreshing salad, made with tomato, lettuce, feta cheese, and olives. Dressed with salt, hot pepper, and olive oil.",
				Image:       "/static/img/greek-salad.svg",
				Alt:         "Fresh Greek Salad with feta cheese and olives",
			},
			{
				Name:        "Bruschetta",
				Price:       "$16.99",
				Description: "Toasted bread, topped with tomato, prosciutto, and cheese. Seasoned with salt and olive oil.",
				Image:       "/static/img/bruschetta.svg",
				Alt:         "Traditional Italian Bruschetta with fresh toppings",
			},
			{
				Name:        "Lemon Dessert",
				Price:       "$8.50",
				Description: "Fresh baked lemon bread coated in salt and sugar. Powdered in citrus and lemon zest.",
				Image:       "/static/img/lemon-dessert.svg",
				Alt:         "Delicious lemon dessert with citrus zest",
			},
		},
		Testimonials: []Testimonial{
			{Name: "Sarah Johnson", Rating: 5, Avatar: "👩", Text: "The Greek salad was absolutely amazing! Fresh ingredients and perfect seasoning. Will definitely come back!"},
			{Name: "Michael Chen", Rating: 5, Avatar: "👨", Text: "Best Mediterranean food in Chicago! The atmosphere is cozy and the staff is incredibly friendly."},
			{Name: "Emily Rodriguez", Rating: 5, Avatar: "👩", Text: "Little Lemon has become our go-to restaurant. The bruschetta is to die for and the service is outstanding."},
			{Name: "David Thompson", Rating: 5, Avatar: "👨", Text: "Authentic Mediterranean flavors with a modern twist. The lemon dessert was the perfect ending to our meal."},
		},
		AboutParagraphs: []string{
			"Based in Chicago, Illinois, Little Lemon is a family-owned Mediterranean restaurant, focused on traditional recipes served with a modern twist. The chefs draw inspiration from Italian, Greek, and Turkish culture and have a menu of 12-15 items that they rotate seasonally.",
			"The restaurant has a rustic and relaxed atmosphere with moderate prices, making it a popular place for a meal any time of the day. Little Lemon is owned by two Italian brothers, Mario and Adrian, who moved to the United States to pursue their shared dream of owning a restaurant.",
		},
		Features: []Feature{
			{Icon: "🍽️", Title: "Traditional Recipes", Text: "Authentic Mediterranean flavors passed down through generations"},
			{Icon: "🌿", Title: "Fresh Ingredients", Text: "Locally sourced, seasonal ingredients for the best taste"},
			{Icon: "👨‍🍳", Title: "Expert Chefs", Text: "Skilled chefs with years of Mediterranean cooking experience"},
		},
		Since: "Family-Owned Since 1995",
		FooterLinks: []Link{
			{Label: "Home", Href: "#home"},
			{Label: "Specials", Href: "#specials"},
			{Label: "Testimonials", Href: "#testimonials"},
			{Label: "About", Href: "#about"},
			{Label: "Reservations", Href: "#reservations"},
		},
		Contact: Contact{
			Street: "2395 Maldove Way",
			City:   "Chicago, Illinois",
			Phone:  "(629)-243-6827",
			Email:  "info@littlelemon.com",
		},
		Hours: []Hours{
			{Days: "Monday - Thursday", Hours: "11:00 AM - 10:00 PM"},
			{Days: "Friday - Saturday", Hours: "11:00 AM - 11:00 PM"},
			{Days: "Sunday", Hours: "12:00 PM - 9:00 PM"},
		},
		Social: []Link{
			{Label: "📘 Facebook", Href: "https://www.facebook.com/", Aria: "Facebook"},
			{Label: "📷 Instagram", Href: "https://www.instagram.com/", Aria: "Instagram"},
			{Label: "📺 YouTube", Href: "https://www.youtube.com/", Aria: "YouTube"},
		},
		Copyright: "Little Lemon Restaurant. All rights reserved.",
	}
}
