package utils

import (
	stderrors "errors"
	"fmt"
	"net"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Picoli-Igor/Dash2/internal/shared/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			if name, _, _ := strings.Cut(fld.Tag.Get(tag), ","); name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})
	if err := v.RegisterValidation("sqlserver_host", func(fl validator.FieldLevel) bool {
		return IsSQLServerAddress(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// ValidateStruct validates s and folds every field failure into one
// validation error.
func ValidateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return errors.NewValidationError("Validation failed", err.Error())
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fieldErrorMessage(fe))
	}
	return errors.NewValidationError("Validation failed", strings.Join(msgs, "; "))
}

var fieldMessages = map[string]string{
	"required":       "%s is required",
	"min":            "%s must be at least %s",
	"max":            "%s must be at most %s",
	"oneof":          "%s must be one of [%s]",
	"sqlserver_host": "%s must be a host name or IP, optionally followed by ,port or \\instance",
}

func fieldErrorMessage(fe validator.FieldError) string {
	format, ok := fieldMessages[fe.Tag()]
	if !ok {
		return fmt.Sprintf("%s failed validation for '%s'", fe.Field(), fe.Tag())
	}
	if (fe.Tag() == "min" || fe.Tag() == "max") && fe.Kind() == reflect.String {
		format += " characters long"
	}
	if strings.Count(format, "%s") == 1 {
		return fmt.Sprintf(format, fe.Field())
	}
	return fmt.Sprintf(format, fe.Field(), fe.Param())
}

var domainRegex = regexp.MustCompile(`^([a-zA-Z0-9_]([a-zA-Z0-9\-_]{0,61}[a-zA-Z0-9])?\.)*[a-zA-Z0-9_]([a-zA-Z0-9\-_]{0,61}[a-zA-Z0-9])?$`)

var instanceRegex = regexp.MustCompile(`^[a-zA-Z0-9_$#]{1,16}$`)

// IsSQLServerAddress reports whether address is a SQL Server address in one
// of the forms host, host,port, host:port or host\instance. "." and
// "(local)" name the local default instance.
func IsSQLServerAddress(address string) bool {
	address = strings.TrimSpace(address)
	if address == "" {
		return false
	}

	host, port := address, ""
	if i := strings.LastIndex(address, ","); i >= 0 {
		host, port = address[:i], address[i+1:]
	} else if h, p, err := net.SplitHostPort(address); err == nil {
		host, port = h, p
	}

	if port != "" {
		n, err := strconv.Atoi(port)
		if err != nil || n <= 0 || n > 65535 {
			return false
		}
	}

	if i := strings.Index(host, `\`); i >= 0 {
		if !instanceRegex.MatchString(host[i+1:]) {
			return false
		}
		host = host[:i]
	}

	switch strings.ToLower(host) {
	case ".", "(local)", "localhost":
		return true
	}
	if net.ParseIP(host) != nil {
		return true
	}
	return domainRegex.MatchString(host)
}
