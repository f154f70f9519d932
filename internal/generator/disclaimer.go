package generator

import "strings"

// Disclaimer categories are detected by keyword and appended in the target
// language from a prebuilt table, so no extra LLM call is ever needed for
// them.
type disclaimerCategory string

const (
	disclaimerPrice     disclaimerCategory = "price"
	disclaimerSchedule  disclaimerCategory = "schedule"
	disclaimerSeasonal  disclaimerCategory = "seasonal"
	disclaimerTransport disclaimerCategory = "transport"
)

var priceKeywords = []string{
	"лари", "цена", "стоимость", "билет", "$", "₾", "euro", "доллар",
	"бесплатно", "платно", "тариф", "cost", "price", "fee", "free", "рубль",
	"preis", "kostenlos", "prix", "gratuit", "precio", "gratis", "prezzo",
	"ticket", "entrance", "admission",
}

var scheduleKeywords = []string{
	"время работы", "открыт", "график", "часы", "расписание", "закрыт",
	"opening hours", "schedule", "closed", "open", "working time", "hours",
	"öffnungszeiten", "geschlossen", "horaires", "fermé", "horario", "cerrado",
	"orari", "chiuso",
}

var seasonalKeywords = []string{
	"зима", "снег", "горы", "трекинг", "лыжи", "альпинизм", "сезон",
	"winter", "snow", "hiking", "climbing", "ski", "mountain", "season",
	"sommer", "hiver", "invierno", "inverno", "estate",
}

var transportKeywords = []string{
	"маршрут", "добраться", "транспорт", "автобус", "поезд", "дорога",
	"route", "transport", "bus", "train", "taxi", "road",
	"verkehr", "transports", "transporte",
}

var disclaimerHeaders = map[string]string{
	"en": "### ⚠️ Important Information:",
	"ru": "### ⚠️ Важная информация:",
	"ka": "### ⚠️ მნიშვნელოვანი ინფორმაცია:",
	"de": "### ⚠️ Wichtige Information:",
	"fr": "### ⚠️ Information importante:",
	"es": "### ⚠️ Información importante:",
	"it": "### ⚠️ Informazioni importanti:",
	"nl": "### ⚠️ Belangrijke informatie:",
	"pl": "### ⚠️ Ważne informacje:",
	"cs": "### ⚠️ Důležité informace:",
	"zh": "### ⚠️ 重要信息：",
	"ja": "### ⚠️ 重要な情報：",
	"ko": "### ⚠️ 중요 정보:",
	"ar": "### ⚠️ معلومات هامة:",
	"tr": "### ⚠️ Önemli Bilgi:",
	"hi": "### ⚠️ महत्वपूर्ण जानकारी:",
	"hy": "### ⚠️ Կարևոր տեղեկատվություն:",
	"az": "### ⚠️ Vacib məlumat:",
}

// disclaimers is the per-language warning text for each category.
var disclaimers = map[string]map[disclaimerCategory]string{
	"en": {
		disclaimerPrice:     "⚠️ **Note**: Prices may change. Please verify current costs before visiting.",
		disclaimerSchedule:  "🕒 **Note**: Opening hours may vary by season and holidays. Please check current schedule.",
		disclaimerSeasonal:  "🌨️ **Important**: Mountain route accessibility depends on weather and season. Check conditions before traveling.",
		disclaimerTransport: "🚌 **Tip**: Public transport routes may change. Verify current schedules and routes.",
	},
	"ru": {
		disclaimerPrice:     "⚠️ **Внимание**: Цены могут изменяться. Рекомендуем уточнить актуальную стоимость перед посещением.",
		disclaimerSchedule:  "🕒 **Примечание**: Время работы может изменяться в зависимости от сезона и праздников. Уточняйте актуальное расписание.",
		disclaimerSeasonal:  "🌨️ **Важно**: Доступность горных маршрутов зависит от погодных условий и сезона. Проверяйте условия перед поездкой.",
		disclaimerTransport: "🚌 **Совет**: Маршруты общественного транспорта могут изменяться. Проверьте актуальное расписание и маршруты.",
	},
	"ka": {
		disclaimerPrice:     "⚠️ **ყურადღება**: ფასები შეიძლება შეიცვალოს. გთხოვთ, გადაამოწმოთ ფასები ვიზიტამდე.",
		disclaimerSchedule:  "🕒 **შენიშვნა**: სამუშაო საათები შეიძლება იცვლებოდეს სეზონისა და დღესასწაულების მიხედვით.",
		disclaimerSeasonal:  "🌨️ **მნიშვნელოვანი**: მთის მარშრუტების ხელმისაწვდომობა დამოკიდებულია ამინდსა და სეზონზე.",
		disclaimerTransport: "🚌 **რჩევა**: საზოგადოებრივი ტრანსპორტის მარშრუტები შეიძლება შეიცვალოს.",
	},
	"de": {
		disclaimerPrice:     "⚠️ **Hinweis**: Preise können sich ändern. Bitte aktuelle Kosten vor dem Besuch prüfen.",
		disclaimerSchedule:  "🕒 **Hinweis**: Öffnungszeiten können saisonal und an Feiertagen variieren.",
		disclaimerSeasonal:  "🌨️ **Wichtig**: Bergwege-Zugänglichkeit hängt von Wetter und Jahreszeit ab.",
		disclaimerTransport: "🚌 **Tipp**: Öffentliche Verkehrsmittel können sich ändern. Aktuelle Fahrpläne prüfen.",
	},
	"fr": {
		disclaimerPrice:     "⚠️ **Attention**: Les prix peuvent changer. Vérifiez les tarifs actuels avant votre visite.",
		disclaimerSchedule:  "🕒 **Note**: Les horaires peuvent varier selon la saison et les jours fériés.",
		disclaimerSeasonal:  "🌨️ **Important**: L'accès aux itinéraires de montagne dépend de la météo et de la saison.",
		disclaimerTransport: "🚌 **Conseil**: Les itinéraires de transport public peuvent changer. Vérifiez les horaires actuels.",
	},
	"es": {
		disclaimerPrice:     "⚠️ **Atención**: Los precios pueden cambiar. Verifique los costos actuales antes de visitar.",
		disclaimerSchedule:  "🕒 **Nota**: Los horarios pueden variar según la temporada y los días festivos.",
		disclaimerSeasonal:  "🌨️ **Importante**: La accesibilidad de las rutas de montaña depende del clima y la temporada.",
		disclaimerTransport: "🚌 **Consejo**: Las rutas de transporte público pueden cambiar. Verifique los horarios actuales.",
	},
	"it": {
		disclaimerPrice:     "⚠️ **Attenzione**: I prezzi possono cambiare. Verificare i costi attuali prima della visita.",
		disclaimerSchedule:  "🕒 **Nota**: Gli orari di apertura possono variare per stagione e festività.",
		disclaimerSeasonal:  "🌨️ **Importante**: L'accessibilità dei percorsi montani dipende dal meteo e dalla stagione.",
		disclaimerTransport: "🚌 **Suggerimento**: Le rotte dei trasporti pubblici possono cambiare. Verificare gli orari attuali.",
	},
	"nl": {
		disclaimerPrice:     "⚠️ **Let op**: Prijzen kunnen veranderen. Controleer de huidige kosten voor uw bezoek.",
		disclaimerSchedule:  "🕒 **Opmerking**: Openingstijden kunnen variëren per seizoen en feestdagen.",
		disclaimerSeasonal:  "🌨️ **Belangrijk**: Toegankelijkheid van bergroutes hangt af van het weer en seizoen.",
		disclaimerTransport: "🚌 **Tip**: Openbaar vervoerroutes kunnen wijzigen. Controleer actuele dienstregelingen.",
	},
	"pl": {
		disclaimerPrice:     "⚠️ **Uwaga**: Ceny mogą się zmieniać. Sprawdź aktualne koszty przed wizytą.",
		disclaimerSchedule:  "🕒 **Uwaga**: Godziny otwarcia mogą się zmieniać w zależności od sezonu i świąt.",
		disclaimerSeasonal:  "🌨️ **Ważne**: Dostępność tras górskich zależy od pogody i sezonu.",
		disclaimerTransport: "🚌 **Wskazówka**: Trasy transportu publicznego mogą się zmieniać. Sprawdź aktualne rozkłady.",
	},
	"cs": {
		disclaimerPrice:     "⚠️ **Upozornění**: Ceny se mohou měnit. Ověřte aktuální náklady před návštěvou.",
		disclaimerSchedule:  "🕒 **Poznámka**: Otevírací doba se může měnit podle sezóny a svátků.",
		disclaimerSeasonal:  "🌨️ **Důležité**: Přístupnost horských tras závisí na počasí a sezóně.",
		disclaimerTransport: "🚌 **Tip**: Trasy veřejné dopravy se mohou měnit. Ověřte aktuální jízdní řády.",
	},
	"zh": {
		disclaimerPrice:     "⚠️ **注意**：价格可能会变化。请在访问前确认最新价格。",
		disclaimerSchedule:  "🕒 **注意**：营业时间可能因季节和节假日而异。",
		disclaimerSeasonal:  "🌨️ **重要**：山区路线的可达性取决于天气和季节。",
		disclaimerTransport: "🚌 **提示**：公共交通路线可能会变化。请确认最新时刻表。",
	},
	"ja": {
		disclaimerPrice:     "⚠️ **注意**：料金は変更される場合があります。訪問前に最新の料金をご確認ください。",
		disclaimerSchedule:  "🕒 **注意**：営業時間は季節や祝日により変更される場合があります。",
		disclaimerSeasonal:  "🌨️ **重要**：山岳ルートへのアクセスは天候と季節によります。",
		disclaimerTransport: "🚌 **ヒント**：公共交通機関のルートは変更される場合があります。",
	},
	"ko": {
		disclaimerPrice:     "⚠️ **주의**: 가격은 변경될 수 있습니다. 방문 전 최신 요금을 확인하세요.",
		disclaimerSchedule:  "🕒 **참고**: 운영 시간은 계절과 공휴일에 따라 달라질 수 있습니다.",
		disclaimerSeasonal:  "🌨️ **중요**: 산악 경로 접근성은 날씨와 계절에 따라 다릅니다.",
		disclaimerTransport: "🚌 **팁**: 대중교통 노선은 변경될 수 있습니다. 최신 시간표를 확인하세요.",
	},
	"ar": {
		disclaimerPrice:     "⚠️ **تنبيه**: قد تتغير الأسعار. يرجى التحقق من التكاليف الحالية قبل الزيارة.",
		disclaimerSchedule:  "🕒 **ملاحظة**: قد تختلف ساعات العمل حسب الموسم والعطلات.",
		disclaimerSeasonal:  "🌨️ **هام**: تعتمد إمكانية الوصول إلى الطرق الجبلية على الطقس والموسم.",
		disclaimerTransport: "🚌 **نصيحة**: قد تتغير خطوط النقل العام. تحقق من الجداول الحالية.",
	},
	"tr": {
		disclaimerPrice:     "⚠️ **Dikkat**: Fiyatlar değişebilir. Ziyaretten önce güncel fiyatları kontrol edin.",
		disclaimerSchedule:  "🕒 **Not**: Açılış saatleri mevsime ve tatil günlerine göre değişebilir.",
		disclaimerSeasonal:  "🌨️ **Önemli**: Dağ rotalarına erişim hava durumu ve mevsime bağlıdır.",
		disclaimerTransport: "🚌 **İpucu**: Toplu taşıma güzergahları değişebilir. Güncel tarifeleri kontrol edin.",
	},
	"hi": {
		disclaimerPrice:     "⚠️ **ध्यान दें**: कीमतें बदल सकती हैं। यात्रा से पहले वर्तमान लागत सत्यापित करें।",
		disclaimerSchedule:  "🕒 **नोट**: खुलने का समय मौसम और छुट्टियों के अनुसार भिन्न हो सकता है।",
		disclaimerSeasonal:  "🌨️ **महत्वपूर्ण**: पहाड़ी मार्गों की पहुंच मौसम और ऋतु पर निर्भर करती है।",
		disclaimerTransport: "🚌 **सुझाव**: सार्वजनिक परिवहन मार्ग बदल सकते हैं। वर्तमान समय सारणी जांचें।",
	},
	"hy": {
		disclaimerPrice:     "⚠️ **Ուշադրություն**: Գները կարող են փոխվել։ Այցից առաջ ստուգեք ընթացիկ գները։",
		disclaimerSchedule:  "🕒 **Նշում**: Աշխատանքային ժամերը կարող են տարբերվել սեզոնի և տոների համաձայն։",
		disclaimerSeasonal:  "🌨️ **Կարևոր**: Լեռնային երթուղիների հասանելիությունը կախված է եղանակից և սեզոնից։",
		disclaimerTransport: "🚌 **Խորհուրդ**: Հասարակական տրանսպորտի երթուղիները կարող են փոխվել։",
	},
	"az": {
		disclaimerPrice:     "⚠️ **Diqqət**: Qiymətlər dəyişə bilər. Ziyarətdən əvvəl cari xərcləri yoxlayın.",
		disclaimerSchedule:  "🕒 **Qeyd**: İş saatları mövsümə və bayramlara görə dəyişə bilər.",
		disclaimerSeasonal:  "🌨️ **Vacib**: Dağ marşrutlarına çıxış hava şəraiti və mövsümdən asılıdır.",
		disclaimerTransport: "🚌 **Məsləhət**: İctimai nəqliyyat marşrutları dəyişə bilər.",
	},
}

func detectDisclaimerCategories(answer string) []disclaimerCategory {
	lower := strings.ToLower(answer)
	var categories []disclaimerCategory
	if containsAnyKeyword(lower, priceKeywords) {
		categories = append(categories, disclaimerPrice)
	}
	if containsAnyKeyword(lower, scheduleKeywords) {
		categories = append(categories, disclaimerSchedule)
	}
	if containsAnyKeyword(lower, seasonalKeywords) {
		categories = append(categories, disclaimerSeasonal)
	}
	if containsAnyKeyword(lower, transportKeywords) {
		categories = append(categories, disclaimerTransport)
	}
	return categories
}

// addDisclaimers appends per-category warnings in the target language.
// Unknown languages fall back to English.
func addDisclaimers(answer, language string) string {
	table, ok := disclaimers[language]
	if !ok {
		language = "en"
		table = disclaimers["en"]
	}

	categories := detectDisclaimerCategories(answer)
	if len(categories) == 0 {
		return answer
	}

	sections := make([]string, 0, len(categories))
	for _, cat := range categories {
		if text, ok := table[cat]; ok {
			sections = append(sections, text)
		}
	}
	if len(sections) == 0 {
		return answer
	}

	header := disclaimerHeaders[language]
	return answer + "\n\n---\n\n" + header + "\n\n" + strings.Join(sections, "\n\n")
}

func containsAnyKeyword(haystack string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(haystack, k) {
			return true
		}
	}
	return false
}
