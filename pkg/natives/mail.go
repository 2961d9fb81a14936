package natives

import (
	"strconv"

	gomail "gopkg.in/gomail.v2"

	"github.com/lgtm-migrator/grace/pkg/value"
)

func init() {
	register(Native{Name: "send_mail", Arity: 8, Fn: sendMail})
}

// send_mail(host, port, user, pass, from, to, subject, body).
func sendMail(args []value.Value) (value.Value, error) {
	for i, name := range []string{"host", "port", "user", "pass", "from", "to", "subject", "body"} {
		if !args[i].IsString() {
			return value.Null, errInvalidArgument("send_mail argument %q must be a string", name)
		}
	}
	port, err := strconv.Atoi(args[1].AsString())
	if err != nil {
		return value.Null, errInvalidArgument("send_mail port must be numeric: %s", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", args[4].AsString())
	m.SetHeader("To", args[5].AsString())
	m.SetHeader("Subject", args[6].AsString())
	m.SetBody("text/plain", args[7].AsString())

	dialer := gomail.NewDialer(args[0].AsString(), port, args[2].AsString(), args[3].AsString())
	if err := dialer.DialAndSend(m); err != nil {
		return value.Null, &Error{Kind: "InvalidArgument", Message: err.Error()}
	}
	return value.Null, nil
}
