package pump

import (
	"time"

	"github.com/georgemunganga/fuelnow-backend/internal/modules/pricing"
	"github.com/georgemunganga/fuelnow-backend/internal/modules/user"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Pump is a registered fuel-selling business with one owning admin.
type Pump struct {
	ID          uuid.UUID       `json:"id"`
	OwnerID     uuid.UUID       `json:"owner_id"`
	Name        string          `json:"name"`
	AdminHandle string          `json:"admin_handle"`
	Address     string          `json:"address"`
	PetrolPrice decimal.Decimal `json:"petrol_price"`
	DieselPrice decimal.Decimal `json:"diesel_price"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Board returns the pump's current prices.
func (p *Pump) Board() pricing.PriceBoard {
	return pricing.PriceBoard{Petrol: p.PetrolPrice, Diesel: p.DieselPrice}
}

// RegisterRequest is the pump admin signup payload. It creates both the
// admin's login and the pump.
type RegisterRequest struct {
	Name        string         `json:"name" validate:"trimmin=3"`
	AdminHandle string         `json:"admin_handle" validate:"min=3,handle"`
	Email       string         `json:"email" validate:"required,email"`
	Phone       string         `json:"phone" validate:"phone10"`
	Password    string         `json:"password" validate:"min=8"`
	Address     string         `json:"address" validate:"trimmin=5"`
	PetrolPrice pricing.Amount `json:"petrol_price"`
	DieselPrice pricing.Amount `json:"diesel_price"`
}

// Registration is the result of a successful signup.
type Registration struct {
	Pump  *Pump      `json:"pump"`
	Admin *user.User `json:"admin"`
}

// UpdatePricesRequest carries both new prices; each must be a positive number.
type UpdatePricesRequest struct {
	PetrolPrice pricing.Amount `json:"petrol_price"`
	DieselPrice pricing.Amount `json:"diesel_price"`
}
