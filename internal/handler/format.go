package handler

import (
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"

	"lugat/internal/domain"
	"lugat/internal/service"
)

// Telegram rejects callback data longer than this many bytes
const maxCallbackData = 64

const (
	menuText = "🇺🇿 Assalomu alaykum! Inglizcha so'zlar yodlash botiga xush kelibsiz!\n" +
		"🇬🇧 Welcome to the English vocabulary learning bot!\n\n" +
		"Sizga yoqmaydigan so'zlarni o'chirishingiz mumkin.\n\n" +
		"Quyidagi tugmalardan birini tanlang:"

	addWordPrompt = "📝 Yangi so'z qo'shish uchun quyidagi formatda yuboring:\n\n" +
		"<code>so'z, tarjima, misol (ixtiyoriy)</code>\n\n" +
		"Misol uchun:\n" +
		"<code>apple, olma, I eat an apple every day</code>\n\n" +
		"Tarjimasiz yuborsangiz, uni avtomatik topishga harakat qilamiz.\n" +
		"Eslatma: Agar so'z allaqachon mavjud bo'lsa, qo'shilmaydi."

	askTranslationText = "🤔 '%s' so'zining tarjimasini topa olmadik.\n\nIltimos, tarjimasini yuboring:"

	genericErrorText = "Xatolik yuz berdi. Iltimos, keyinroq urinib ko'ring."
	staleText        = "Bu tugma eskirgan. Iltimos, /start buyrug'ini qayta yuboring."
	notFoundText     = "❌ So'z topilmadi yoki allaqachon o'chirilgan."
	badFormatText    = "❌ Noto'g'ri format. Iltimos, formatga rioya qiling:\n" +
		"<code>so'z, tarjima, misol (ixtiyoriy)</code>\n\n" +
		"Misol: <code>apple, olma, I eat an apple</code>"
)

// parseWordInput splits "word, translation, example". Translation and example are optional;
// commas inside the example are kept.
func parseWordInput(text string) (word, translation, example string, err error) {
	parts := strings.SplitN(text, ",", 3)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	word = parts[0]
	if word == "" {
		return "", "", "", domain.ErrValidation
	}
	if len(parts) > 1 {
		translation = parts[1]
	}
	if len(parts) > 2 {
		example = parts[2]
	}
	return word, translation, example, nil
}

// callbackData joins prefix and value and reports whether it fits into a button
func callbackData(prefix, value string) (string, bool) {
	data := prefix + value
	// telebot prepends a \f marker
	return data, len(data)+1 <= maxCallbackData
}

// parseNumberSuffix reads the integer after prefix
func parseNumberSuffix(data, prefix string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimPrefix(data, prefix))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// parseAnswerData reads "answer_<question>_<option>"
func parseAnswerData(data string) (number, option int, ok bool) {
	parts := strings.Split(strings.TrimPrefix(data, prefixAnswer), "_")
	if len(parts) != 2 {
		return 0, 0, false
	}
	number, err := strconv.Atoi(parts[0])
	if err != nil || number <= 0 {
		return 0, 0, false
	}
	option, err = strconv.Atoi(parts[1])
	if err != nil || option < 0 {
		return 0, 0, false
	}
	return number, option, true
}

func formatAdded(entry domain.WordEntry) string {
	text := "✅ So'z muvaffaqiyatli qo'shildi:\n\n"
	text += fmt.Sprintf("<b>Inglizcha:</b> %s\n", html.EscapeString(entry.Word))
	text += fmt.Sprintf("<b>Tarjima:</b> %s\n", html.EscapeString(entry.Translation))
	if entry.Example != "" {
		text += fmt.Sprintf("<b>Misol:</b> %s\n", html.EscapeString(entry.Example))
	}
	return text
}

func formatCard(card *service.Card) string {
	text := fmt.Sprintf("📖 So'z %d/%d:\n\n", card.Number, card.Total)
	text += fmt.Sprintf("<b>Inglizcha:</b> %s\n", html.EscapeString(card.Word.Word))
	text += fmt.Sprintf("<b>Tarjima:</b> %s\n", html.EscapeString(card.Word.Translation))
	if card.Word.Example != "" {
		text += fmt.Sprintf("<b>Misol:</b> %s\n", html.EscapeString(card.Word.Example))
	}
	return text
}

func formatPassComplete(learned int) string {
	return fmt.Sprintf("🎉 Tabriklayman! Siz %d ta so'zni yodladingiz!\n\n", learned) +
		"Bu so'zlar endi 'o'rgangan' deb belgilandi va keyingi safar yangi so'zlar ko'rsatiladi.\n\n" +
		"Bilimingizni test bilan tekshirasizmi?"
}

func formatQuestion(q *domain.Question) string {
	text := fmt.Sprintf("❓ Test savoli %d/%d:\n\n", q.Number, q.Total)
	text += fmt.Sprintf("<b>'%s'</b> so'zining tarjimasini toping:\n", html.EscapeString(q.Word.Word))
	return text
}

func formatAnswerFeedback(result service.AnswerResult) string {
	if result.Correct {
		return "✅ To'g'ri!"
	}
	return fmt.Sprintf("❌ Noto'g'ri!\nTo'g'ri javob: %s", html.EscapeString(result.CorrectTranslation))
}

func formatScore(score domain.Score) string {
	text := "📊 Test yakunlandi!\n\n"
	text += fmt.Sprintf("✅ To'g'ri javoblar: %d/%d\n", score.Correct, score.Total)
	text += fmt.Sprintf("📈 Natija: %.1f%%\n\n", score.Percent())

	switch {
	case score.Correct == score.Total:
		text += "🎉 Ajoyib! Barcha javoblaringiz to'g'ri!"
	case score.Correct*10 >= score.Total*7:
		text += "👍 Yaxshi natija!"
	default:
		text += "💪 Qaytadan urinib ko'ring!"
	}
	return text
}

func formatStats(stats domain.Statistics) string {
	text := "📊 Shaxsiy statistika:\n\n"
	text += fmt.Sprintf("📚 Jami so'zlar: %d ta\n", stats.Total)
	text += fmt.Sprintf("✅ O'rgangan so'zlar: %d ta\n", stats.Learned)
	text += fmt.Sprintf("🗑️ O'chirilgan so'zlar: %d ta\n", stats.Deleted)
	text += fmt.Sprintf("📖 Faol so'zlar: %d ta\n", stats.Active)

	if len(stats.MostSeen) > 0 {
		text += "\n👀 Eng ko'p ko'rilgan so'zlar:\n"
		for _, r := range stats.MostSeen {
			text += fmt.Sprintf("• %s - %d marta\n", html.EscapeString(r.Word), r.SeenCount)
		}
	}
	if len(stats.NeedsReview) > 0 {
		text += "\n📝 Yana ko'rib chiqish kerak:\n"
		for _, r := range stats.NeedsReview {
			text += fmt.Sprintf("• %s - %d marta\n", html.EscapeString(r.Word), r.SeenCount)
		}
	}
	return text
}

func formatRefresh(added int) string {
	if added == 0 {
		return "✅ Sizning lug'atingiz allaqachon yangilangan. Yangi so'zlar yo'q."
	}
	return fmt.Sprintf("✅ Lug'atingiz yangilandi!\n\n📥 Yangi qo'shilgan so'zlar: %d ta", added)
}

func insufficientLearningText(err error) string {
	var insufficient *domain.InsufficientDataError
	if errors.As(err, &insufficient) {
		return fmt.Sprintf("Kechirasiz, sizda faqat %d ta so'z mavjud. "+
			"Iltimos, avval yangi so'zlar qo'shing yoki o'chirilgan so'zlarni qayta tiklang.", insufficient.Available)
	}
	return "Kechirasiz, so'zlar yetarli emas."
}

func insufficientTestText(err error) string {
	var insufficient *domain.InsufficientDataError
	if errors.As(err, &insufficient) {
		return fmt.Sprintf("Test uchun kamida %d ta yodlangan so'z kerak, sizda %d ta bor. "+
			"Avval so'z yodlang!", insufficient.Required, insufficient.Available)
	}
	return "Test uchun so'zlar yetarli emas. Avval so'z yodlang!"
}

// errorText maps engine errors to what the user is told
func errorText(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidState):
		return staleText
	case errors.Is(err, domain.ErrNotFound):
		return notFoundText
	case errors.Is(err, domain.ErrValidation):
		return badFormatText
	default:
		return genericErrorText
	}
}
