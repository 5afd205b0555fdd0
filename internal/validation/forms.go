package validation

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Text is a form value that accepts a JSON string or a bare JSON number,
// the way form inputs arrive from different clients.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	*t = Text(data)
	return nil
}

type LoginForm struct {
	Email    string `json:"email" validate:"filled,email"`
	Password string `json:"password" validate:"required,min=6,max=50"`
}

type RegisterForm struct {
	Name            string `json:"name" validate:"filled"`
	LastName        string `json:"lastName" validate:"filled"`
	Phone           string `json:"phone" validate:"filled,phone10"`
	Email           string `json:"email" validate:"filled,email"`
	Password        string `json:"password" validate:"required,min=6,max=50"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=Password"`
}

// PhoneDigits returns the phone number without whitespace.
func (f RegisterForm) PhoneDigits() string {
	return whitespace.ReplaceAllString(f.Phone, "")
}

// ProductForm is the admin product editor
type ProductForm struct {
	Name        string `json:"name" validate:"filled,min=2,max=100"`
	Description string `json:"description"`
	Price       Text   `json:"price" validate:"filled,positive,maxprice"`
	Stock       Text   `json:"stock" validate:"filled,stock"`
	Category    string `json:"category"`
	Image       string `json:"image" validate:"filled,imageurl"`
}

// PriceValue parses the validated price.
func (f ProductForm) PriceValue() decimal.Decimal {
	d, _ := decimal.NewFromString(strings.TrimSpace(string(f.Price)))
	return d
}

// StockValue parses the validated stock.
func (f ProductForm) StockValue() int {
	d, _ := decimal.NewFromString(strings.TrimSpace(string(f.Stock)))
	return int(d.IntPart())
}

type CheckoutForm struct {
	Address string `json:"address" validate:"filled"`
}

// messages maps "<field>.<tag>", or "<Form>.<field>.<tag>" where field
// names collide, to the alert text
var messages = map[string]string{
	"RegisterForm.name.filled": "Nombre es requerido",
	"ProductForm.name.filled":  "El nombre del producto es requerido",

	"email.filled": "El email es requerido",
	"email.email":  "El email no es válido",

	"password.required": "La contraseña es requerida",
	"password.min":      "La contraseña debe tener al menos 6 caracteres",
	"password.max":      "La contraseña no puede exceder 50 caracteres",

	"confirmPassword.eqfield": "Las contraseñas no coinciden",

	"lastName.filled": "Apellido es requerido",

	"phone.filled":  "El teléfono es requerido",
	"phone.phone10": "El teléfono debe tener 10 dígitos",

	"name.min": "El nombre debe tener al menos 2 caracteres",
	"name.max": "El nombre no puede exceder 100 caracteres",

	"price.filled":   "El precio es requerido",
	"price.positive": "El precio debe ser un número positivo",
	"price.maxprice": "El precio es demasiado alto",

	"stock.filled": "El stock es requerido",
	"stock.stock":  "El stock debe ser un número entero positivo o cero",

	"image.filled":   "La URL de la imagen es requerida",
	"image.imageurl": "Debe ser una URL válida de imagen (jpg, jpeg, png, gif, webp)",

	"address.filled": "Por favor, completa la dirección de entrega.",
}
