package models

// Product represents a catalog item managed through the /bp/products API.
// Dates are ISO calendar dates (YYYY-MM-DD).
type Product struct {
	ID           string `json:"id" gorm:"primaryKey;type:varchar(10)" validate:"required,min=3,max=10"`
	Name         string `json:"name" gorm:"type:varchar(100);not null" validate:"required,min=5,max=100"`
	Description  string `json:"description" gorm:"type:varchar(200);not null" validate:"required,min=10,max=200"`
	Logo         string `json:"logo" gorm:"not null" validate:"required"`
	DateRelease  string `json:"date_release" gorm:"column:date_release;type:varchar(10);not null" validate:"required,notpast"`
	DateRevision string `json:"date_revision" gorm:"column:date_revision;type:varchar(10);not null" validate:"required,oneyearafter=DateRelease"`
}

// TableName pins the GORM table name.
func (Product) TableName() string {
	return "products"
}

// ProductUpdate is the update payload: a Product without its identifier.
type ProductUpdate struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Logo         string `json:"logo"`
	DateRelease  string `json:"date_release"`
	DateRevision string `json:"date_revision"`
}

// WithoutID strips the identifier for the update payload.
func (p Product) WithoutID() ProductUpdate {
	return ProductUpdate{
		Name:         p.Name,
		Description:  p.Description,
		Logo:         p.Logo,
		DateRelease:  p.DateRelease,
		DateRevision: p.DateRevision,
	}
}

// WithID rebuilds a full Product from an update payload.
func (u ProductUpdate) WithID(id string) Product {
	return Product{
		ID:           id,
		Name:         u.Name,
		Description:  u.Description,
		Logo:         u.Logo,
		DateRelease:  u.DateRelease,
		DateRevision: u.DateRevision,
	}
}

// ProductsResponse is the envelope returned by GET /bp/products.
type ProductsResponse struct {
	Data []Product `json:"data"`
}

// ProductResponse is returned by create and update.
type ProductResponse struct {
	Message string  `json:"message"`
	Data    Product `json:"data"`
}

// MessageResponse is returned by delete.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the error body of every non-2xx response.
type ErrorResponse struct {
	Name    string   `json:"name,omitempty"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}
