package poll

import (
	"html"
	"strconv"
	"strings"
	"time"
)

var indonesianDays = [...]string{"Minggu", "Senin", "Selasa", "Rabu", "Kamis", "Jumat", "Sabtu"}

var indonesianMonths = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// FormatDate renders t as a long Indonesian date, e.g. "Senin, 15 Januari 2024".
func FormatDate(t time.Time) string {
	return indonesianDays[t.Weekday()] + ", " +
		strconv.Itoa(t.Day()) + " " +
		indonesianMonths[t.Month()-1] + " " +
		strconv.Itoa(t.Year())
}

// Digest renders the pinned message body. Links point at each poll
// message in the chat with the given public username.
func Digest(date time.Time, username string, c Content) string {
	chatLink := "https://t.me/" + username

	var b strings.Builder
	b.WriteString("<strong>")
	b.WriteString(FormatDate(date))
	b.WriteString("</strong>\n\n")
	b.WriteString("Quiz\n")
	b.WriteString(links(chatLink, c.Quiz))
	b.WriteString("\n\n")
	b.WriteString("Survey\n")
	b.WriteString(links(chatLink, c.Survey))
	b.WriteString("\n")
	return b.String()
}

func links(chatLink string, items []Item) string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = `<a href="` + chatLink + "/" + strconv.Itoa(it.ID) + `">` + html.EscapeString(it.Text) + "</a>"
	}
	return strings.Join(out, "\n")
}
