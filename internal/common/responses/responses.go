package responses

import "github.com/labstack/echo/v4"

// Envelope adalah bentuk seragam semua respons JSON API.
type Envelope struct {
	Status  bool              `json:"status"`
	Message string            `json:"message"`
	Data    interface{}       `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func Success(c echo.Context, code int, message string, data interface{}) error {
	return c.JSON(code, Envelope{Status: true, Message: message, Data: data})
}

func Error(c echo.Context, code int, message string) error {
	return c.JSON(code, Envelope{Status: false, Message: message})
}

// ValidationError mengembalikan 422 dengan rincian pelanggaran per field.
func ValidationError(c echo.Context, fieldErrors map[string]string) error {
	return c.JSON(422, Envelope{
		Status:  false,
		Message: "Data yang dikirim tidak valid",
		Errors:  fieldErrors,
	})
}
