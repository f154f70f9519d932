package generator

// Canned replies for failure paths, pre-translated so a broken or slow LLM
// never leaves the user without an answer in their language.

var timeoutMessages = map[string]string{
	"en": "I apologize, but the request timed out. Please try again with a simpler question.",
	"ru": "Извините, запрос превысил время ожидания. Пожалуйста, попробуйте задать более простой вопрос.",
	"ka": "ვწუხვარ, მოთხოვნის დრო ამოიწურა. გთხოვთ, სცადოთ უფრო მარტივი კითხვა.",
	"de": "Entschuldigung, die Anfrage hat das Zeitlimit überschritten. Bitte versuchen Sie es mit einer einfacheren Frage.",
	"fr": "Désolé, la demande a expiré. Veuillez réessayer avec une question plus simple.",
	"es": "Lo siento, la solicitud ha excedido el tiempo. Por favor, intente con una pregunta más simple.",
	"it": "Mi dispiace, la richiesta è scaduta. Per favore, riprova con una domanda più semplice.",
	"nl": "Sorry, het verzoek is verlopen. Probeer het opnieuw met een eenvoudigere vraag.",
	"pl": "Przepraszam, żądanie przekroczyło czas. Proszę spróbować prostsze pytanie.",
	"cs": "Omlouváme se, požadavek vypršel. Zkuste to prosím s jednodušší otázkou.",
	"zh": "抱歉，请求超时。请尝试更简单的问题。",
	"ja": "申し訳ございません。リクエストがタイムアウトしました。より簡単な質問でお試しください。",
	"ko": "죄송합니다. 요청 시간이 초과되었습니다. 더 간단한 질문으로 다시 시도해 주세요.",
	"ar": "عذراً، انتهت مهلة الطلب. يرجى المحاولة بسؤال أبسط.",
	"tr": "Üzgünüm, istek zaman aşımına uğradı. Lütfen daha basit bir soruyla tekrar deneyin.",
	"hi": "क्षमा करें, अनुरोध समय समाप्त हो गया। कृपया एक सरल प्रश्न के साथ पुनः प्रयास करें।",
	"hy": "Ներողություն, հարցումը ժամանակից դուրս է: Խնդրում ենք փորձել ավելի պարզ հարցով:",
	"az": "Üzr istəyirik, sorğunun vaxtı bitdi. Zəhmət olmasa daha sadə bir sualla yenidən cəhd edin.",
}

var errorMessages = map[string]string{
	"en": "I apologize, but I encountered a technical error. Please try again.",
	"ru": "Извините, произошла техническая ошибка. Пожалуйста, попробуйте еще раз.",
	"ka": "ვწუხვარ, მოხდა ტექნიკური შეცდომა. გთხოვთ, სცადოთ ხელახლა.",
	"de": "Entschuldigung, es ist ein technischer Fehler aufgetreten. Bitte versuchen Sie es erneut.",
	"fr": "Désolé, une erreur technique s'est produite. Veuillez réessayer.",
	"es": "Lo siento, ha ocurrido un error técnico. Por favor, inténtelo de nuevo.",
	"it": "Mi dispiace, si è verificato un errore tecnico. Per favore, riprova.",
	"nl": "Sorry, er is een technische fout opgetreden. Probeer het opnieuw.",
	"pl": "Przepraszam, wystąpił błąd techniczny. Proszę spróbować ponownie.",
	"cs": "Omlouváme se, došlo k technické chybě. Zkuste to prosím znovu.",
	"zh": "抱歉，发生了技术错误。请重试。",
	"ja": "申し訳ございません。技術的なエラーが発生しました。もう一度お試しください。",
	"ko": "죄송합니다. 기술적 오류가 발생했습니다. 다시 시도해 주세요.",
	"ar": "عذراً، حدث خطأ تقني. يرجى المحاولة مرة أخرى.",
	"tr": "Üzgünüm, teknik bir hata oluştu. Lütfen tekrar deneyin.",
	"hi": "क्षमा करें, एक तकनीकी त्रुटि हुई। कृपया पुनः प्रयास करें।",
	"hy": "Ներողություն, տեխնիկական սխալ է տեղի ունեցել: Խնդրում ենք նորից փորձել:",
	"az": "Üzr istəyirik, texniki xəta baş verdi. Zəhmət olmasa yenidən cəhd edin.",
}

var noInfoMessages = map[string]string{
	"en": "I could not find information about that in my knowledge base. Could you rephrase your question?",
	"ru": "Я не нашёл информации об этом в своей базе знаний. Не могли бы вы переформулировать вопрос?",
	"ka": "ამის შესახებ ინფორმაცია ვერ ვიპოვე. შეგიძლიათ კითხვა სხვაგვარად დასვათ?",
	"de": "Dazu habe ich leider keine Informationen gefunden. Könnten Sie Ihre Frage umformulieren?",
	"fr": "Je n'ai pas trouvé d'informations à ce sujet. Pourriez-vous reformuler votre question ?",
	"es": "No encontré información al respecto. ¿Podría reformular su pregunta?",
	"it": "Non ho trovato informazioni al riguardo. Potresti riformulare la domanda?",
	"nl": "Ik heb hierover geen informatie gevonden. Kunt u uw vraag anders formuleren?",
	"pl": "Nie znalazłem informacji na ten temat. Czy możesz przeformułować pytanie?",
	"cs": "K tomuto tématu jsem nenašel žádné informace. Můžete otázku přeformulovat?",
	"zh": "我没有找到相关信息。您能换个方式提问吗？",
	"ja": "その情報は見つかりませんでした。質問を言い換えていただけますか？",
	"ko": "해당 정보를 찾을 수 없습니다. 질문을 바꿔서 해주시겠어요?",
	"ar": "لم أجد معلومات حول ذلك. هل يمكنك إعادة صياغة سؤالك؟",
	"tr": "Bu konuda bilgi bulamadım. Sorunuzu yeniden ifade edebilir misiniz?",
	"hi": "मुझे इसके बारे में जानकारी नहीं मिली। क्या आप अपना प्रश्न दोबारा पूछ सकते हैं?",
	"hy": "Այդ մասին տեղեկատվություն չգտա: Կարո՞ղ եք վերաձևակերպել ձեր հարցը:",
	"az": "Bu barədə məlumat tapa bilmədim. Sualınızı başqa cür ifadə edə bilərsinizmi?",
}

var rephraseMessages = map[string]string{
	"en": "Please enter a question so I can help you explore Georgia.",
	"ru": "Пожалуйста, введите вопрос, чтобы я мог помочь вам исследовать Грузию.",
	"ka": "გთხოვთ, შეიყვანოთ კითხვა, რომ დაგეხმაროთ საქართველოს აღმოჩენაში.",
	"de": "Bitte geben Sie eine Frage ein, damit ich Ihnen helfen kann, Georgien zu entdecken.",
	"fr": "Veuillez saisir une question pour que je puisse vous aider à explorer la Géorgie.",
	"es": "Por favor, escriba una pregunta para que pueda ayudarle a explorar Georgia.",
	"it": "Inserisci una domanda così posso aiutarti a esplorare la Georgia.",
	"nl": "Voer een vraag in zodat ik u kan helpen Georgië te verkennen.",
	"pl": "Wpisz pytanie, abym mógł pomóc Ci odkryć Gruzję.",
	"cs": "Zadejte prosím otázku, abych vám mohl pomoci objevovat Gruzii.",
	"zh": "请输入问题，以便我帮助您探索格鲁吉亚。",
	"ja": "ジョージア探索のお手伝いができるよう、質問を入力してください。",
	"ko": "조지아 탐험을 도와드릴 수 있도록 질문을 입력해 주세요.",
	"ar": "يرجى إدخال سؤال حتى أتمكن من مساعدتك في استكشاف جورجيا.",
	"tr": "Gürcistan'ı keşfetmenize yardımcı olabilmem için lütfen bir soru girin.",
	"hi": "कृपया एक प्रश्न दर्ज करें ताकि मैं जॉर्जिया की खोज में आपकी मदद कर सकूं।",
	"hy": "Խնդրում ենք մուտքագրել հարց, որպեսզի օգնեմ ձեզ ուսումնասիրել Վրաստանը:",
	"az": "Gürcüstanı kəşf etməyinizə kömək edə bilməyim üçün zəhmət olmasa bir sual daxil edin.",
}

func messageIn(table map[string]string, language string) string {
	if msg, ok := table[language]; ok {
		return msg
	}
	return table["en"]
}

// TimeoutMessage is the canned reply when generation exceeds its deadline.
func TimeoutMessage(language string) string { return messageIn(timeoutMessages, language) }

// ErrorMessage is the canned reply for any other generation failure.
func ErrorMessage(language string) string { return messageIn(errorMessages, language) }

// NoInfoMessage is the reply when retrieval produced nothing.
func NoInfoMessage(language string) string { return messageIn(noInfoMessages, language) }

// RephraseMessage is the fast-fail reply for an empty query.
func RephraseMessage(language string) string { return messageIn(rephraseMessages, language) }
