package domain

type Country struct {
	Code          string  `db:"code" json:"code" validate:"required"`
	Name          string  `db:"name" json:"name" validate:"required"`
	CarbonTaxRate float64 `db:"carbon_tax_rate" json:"carbonTaxRate" validate:"gte=0"` // currency per ton CO2e
}

// GhgEmission is one month/source/tonnage observation for a company.
type GhgEmission struct {
	YearMonth string  `db:"year_month" json:"yearMonth" validate:"required,yearmonth"`
	Source    string  `db:"source" json:"source" validate:"required"`
	Emissions float64 `db:"emissions" json:"emissions" validate:"gte=0"` // tons CO2e
}

type Company struct {
	ID        string        `db:"id" json:"id" validate:"required"`
	Name      string        `db:"name" json:"name" validate:"required"`
	Country   string        `db:"country" json:"country" validate:"required"`
	Emissions []GhgEmission `db:"-" json:"emissions" validate:"dive"`
}

type Post struct {
	ID          string `db:"id" json:"id"`
	Title       string `db:"title" json:"title" validate:"required"`
	ResourceUID string `db:"resource_uid" json:"resourceUid" validate:"required"`
	DateTime    string `db:"date_time" json:"dateTime" validate:"required,yearmonth"`
	Content     string `db:"content" json:"content"`
}

// Clone returns a copy that shares no memory with c.
func (c Company) Clone() Company {
	out := c
	if c.Emissions != nil {
		out.Emissions = make([]GhgEmission, len(c.Emissions))
		copy(out.Emissions, c.Emissions)
	}
	return out
}

// Dataset is the full set of records a store is seeded with.
type Dataset struct {
	Countries []Country
	Companies []Company
	Posts     []Post
}
