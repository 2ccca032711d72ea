package handler

import (
    "context"
    "encoding/json"
    "errors"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/invoice-dashboard/internal/service"
)

// requestTimeout bounds every store round-trip made by a handler.
const requestTimeout = 5 * time.Second

func requestCtx(c echo.Context) (context.Context, context.CancelFunc) {
    return context.WithTimeout(c.Request().Context(), requestTimeout)
}

// queryFailed answers a failed read.  Store details never reach the client.
func queryFailed(c echo.Context, err error) error {
    if errors.Is(err, service.ErrNotFound) {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "Invoice not found."})
    }
    var fe *service.FetchError
    if errors.As(err, &fe) {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": fe.Error()})
    }
    return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Something went wrong."})
}

// writeResult maps a mutation result onto a status code.
func writeResult(c echo.Context, okStatus int, res service.Result) error {
    switch res.Outcome {
    case service.OutcomeRejected:
        return c.JSON(http.StatusUnprocessableEntity, res)
    case service.OutcomeFailed:
        return c.JSON(http.StatusInternalServerError, res)
    case service.OutcomeNotFound:
        return c.JSON(http.StatusNotFound, res)
    default:
        return c.JSON(okStatus, res)
    }
}

// amountField accepts the amount either as a JSON number or a string so
// non-numeric input reaches validation instead of failing the bind.
type amountField string

func (a *amountField) UnmarshalJSON(b []byte) error {
    s := strings.TrimSpace(string(b))
    switch {
    case s == "null":
        *a = ""
    case strings.HasPrefix(s, `"`):
        var raw string
        if err := json.Unmarshal(b, &raw); err != nil {
            return err
        }
        *a = amountField(raw)
    default:
        *a = amountField(s)
    }
    return nil
}
