package models

// All lists every model in dependency order for AutoMigrate.
func All() []any {
	return []any{
		&User{},
		&Freelancer{},
		&Technology{},
		&Skill{},
		&Education{},
		&Employment{},
		&Testimonial{},
		&Category{},
		&Gig{},
		&Thumbnail{},
		&Offer{},
		&Review{},
		&Report{},
	}
}
