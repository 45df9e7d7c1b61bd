package alert

import "html/template"

var alertHTML = template.Must(template.New("alert").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Subject}}</title>
</head>
<body style="margin:0;padding:0;font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,Helvetica,Arial,sans-serif;background-color:#f4f5f7;">
<table width="100%" cellpadding="0" cellspacing="0" style="background-color:#f4f5f7;padding:40px 0;">
<tr><td align="center">
<table width="480" cellpadding="0" cellspacing="0" style="background-color:#ffffff;border-radius:8px;overflow:hidden;box-shadow:0 2px 8px rgba(0,0,0,0.08);">
  <tr><td style="padding:32px 40px 24px;text-align:center;">
    <h2 style="margin:0;font-size:24px;color:#b00020;">{{.Subject}}</h2>
  </td></tr>
  <tr><td style="padding:0 40px 16px;">
    <p style="margin:0;font-size:15px;color:#4a4a68;line-height:1.6;"><strong>Location:</strong> {{.Address}}</p>
  </td></tr>
  <tr><td style="padding:0 40px 32px;">
{{- if .MapLink}}
    <p style="margin:0;font-size:15px;color:#4a4a68;line-height:1.6;"><strong>Map Link:</strong> <a href="{{.MapLink}}" target="_blank">{{.MapLink}}</a></p>
{{- else}}
    <p style="margin:0;font-size:15px;color:#4a4a68;line-height:1.6;"><strong>Map Link:</strong> coordinates unavailable</p>
{{- end}}
  </td></tr>
  <tr><td style="padding:16px 40px;background-color:#f9f9fc;border-top:1px solid #eeeef2;">
    <p style="margin:0;font-size:12px;color:#aaaabc;text-align:center;">This is an automated accident alert, please do not reply.</p>
  </td></tr>
</table>
</td></tr>
</table>
</body>
</html>`))

const alertText = `%s

Location: %s
Map Link: %s
`
