package catalog

//nolint:gochecknoglobals,lll // read-only template tables
var messages = map[Language]map[Key]string{
	English: {
		KeyWelcome: "🙏 Welcome to the Cyber Fraud Reporting Assistant.\n\n" +
			"We will help you report a cyber fraud in a few short steps.\n\n" +
			"Please choose your language:\n1. English\n2. हिंदी (Hindi)\n3. ગુજરાતી (Gujarati)",
		KeyConsent: "🔒 Before we begin: the details you share will be stored securely and used only to investigate " +
			"your complaint, as required by the Digital Personal Data Protection Act.\n\n" +
			"1. I agree\n2. I decline",
		KeyConsentDeclined: "Thank you. Your details have not been stored. For immediate help call the cyber crime " +
			"helpline {helpline}.",
		KeyFraudMedium:  "How did the fraud reach you? Reply with a number:\n{options}",
		KeyIncidentType: "What kind of incident was it? Reply with a number:\n{options}",
		KeyLocationState: "Which state or union territory are you in? Reply with a number or the name:\n{options}\n\n" +
			"Reply MORE to see more states.",
		KeyLocationStateMore: "States (page {page} of {pages}):\n{options}\n\nReply MORE to see more states.",
		KeyLocationCity:      "Which city or district are you in?",
		KeyDescription:       "Please describe what happened, including dates and times if you remember them.",
		KeySuspectDetails: "Share any details about the suspect: phone number, email, UPI ID, website or account. " +
			"Reply 'unknown' if you have none.",
		KeyAmount: "How much money was lost, in ₹? Reply 0 if none.",
		KeyEvidence: "Send screenshots, receipts or any other evidence now, with an optional note. " +
			"Reply SKIP if you have none.",
		KeyAnonymous: "Would you like to report anonymously?\n1. Yes, keep me anonymous\n" +
			"2. No, police may contact me on this number",
		KeyConfirmation: "✅ Your complaint has been registered.\n\nReference ID: {reference_id}\n\n" +
			"Keep this ID to follow up. For urgent help call {helpline} or visit https://cybercrime.gov.in.",
		KeyInvalidInput: "❌ Sorry, that is not a valid option. Please try again.",
		KeySubmissionFailed: "⚠️ We could not save your complaint right now. Your answers are kept: please send your " +
			"last reply again in a moment, or call {helpline}.",
		KeyInternalError: "⚠️ Something went wrong. Please try again or call {helpline}.",
	},
	Hindi: {
		KeyConsent: "🔒 शुरू करने से पहले: आपकी जानकारी सुरक्षित रखी जाएगी और केवल आपकी शिकायत की जांच के लिए " +
			"उपयोग की जाएगी।\n\n1. मैं सहमत हूँ\n2. मैं असहमत हूँ",
		KeyConsentDeclined: "धन्यवाद। आपकी जानकारी संग्रहीत नहीं की गई है। तुरंत सहायता के लिए साइबर अपराध हेल्पलाइन " +
			"{helpline} पर कॉल करें।",
		KeyFraudMedium:  "धोखाधड़ी आप तक कैसे पहुँची? एक नंबर भेजें:\n{options}",
		KeyIncidentType: "घटना किस प्रकार की थी? एक नंबर भेजें:\n{options}",
		KeyLocationState: "आप किस राज्य या केंद्र शासित प्रदेश में हैं? नंबर या नाम भेजें:\n{options}\n\n" +
			"और राज्य देखने के लिए MORE भेजें।",
		KeyLocationStateMore: "राज्य (पृष्ठ {page} / {pages}):\n{options}\n\nऔर राज्य देखने के लिए MORE भेजें।",
		KeyLocationCity:      "आप किस शहर या जिले में हैं?",
		KeyDescription:       "कृपया बताएं कि क्या हुआ, यदि याद हो तो तारीख और समय सहित।",
		KeySuspectDetails: "संदिग्ध के बारे में कोई भी जानकारी भेजें: फ़ोन नंबर, ईमेल, UPI ID, वेबसाइट या खाता। " +
			"यदि कुछ नहीं है तो 'unknown' भेजें।",
		KeyAmount: "कितने रुपये (₹) का नुकसान हुआ? यदि नहीं तो 0 भेजें।",
		KeyEvidence: "अभी स्क्रीनशॉट, रसीद या अन्य सबूत भेजें। यदि नहीं है तो SKIP भेजें।",
		KeyAnonymous: "क्या आप गुमनाम रूप से शिकायत करना चाहते हैं?\n1. हाँ, मुझे गुमनाम रखें\n" +
			"2. नहीं, पुलिस मुझसे इस नंबर पर संपर्क कर सकती है",
		KeyConfirmation: "✅ आपकी शिकायत दर्ज हो गई है।\n\nसंदर्भ आईडी: {reference_id}\n\n" +
			"आगे की जानकारी के लिए यह आईडी रखें। तुरंत सहायता के लिए {helpline} पर कॉल करें।",
		KeyInvalidInput:     "❌ क्षमा करें, यह मान्य विकल्प नहीं है। कृपया फिर से प्रयास करें।",
		KeySubmissionFailed: "⚠️ अभी आपकी शिकायत सहेजी नहीं जा सकी। आपके उत्तर सुरक्षित हैं: थोड़ी देर में अपना अंतिम उत्तर फिर से भेजें या {helpline} पर कॉल करें।",
		KeyInternalError:    "⚠️ कुछ गलत हो गया। कृपया फिर से प्रयास करें या {helpline} पर कॉल करें।",
	},
	Gujarati: {
		KeyConsent: "🔒 શરૂ કરતા પહેલા: તમારી માહિતી સુરક્ષિત રાખવામાં આવશે અને ફક્ત તમારી ફરિયાદની તપાસ માટે " +
			"ઉપયોગમાં લેવાશે.\n\n1. હું સંમત છું\n2. હું અસંમત છું",
		KeyConsentDeclined: "આભાર. તમારી માહિતી સંગ્રહિત કરવામાં આવી નથી. તાત્કાલિક મદદ માટે સાયબર ક્રાઇમ હેલ્પલાઇન " +
			"{helpline} પર કૉલ કરો.",
		KeyFraudMedium:  "છેતરપિંડી તમારા સુધી કેવી રીતે પહોંચી? એક નંબર મોકલો:\n{options}",
		KeyIncidentType: "ઘટના કયા પ્રકારની હતી? એક નંબર મોકલો:\n{options}",
		KeyLocationState: "તમે કયા રાજ્ય અથવા કેન્દ્રશાસિત પ્રદેશમાં છો? નંબર અથવા નામ મોકલો:\n{options}\n\n" +
			"વધુ રાજ્યો જોવા MORE મોકલો.",
		KeyLocationStateMore: "રાજ્યો (પાનું {page} / {pages}):\n{options}\n\nવધુ રાજ્યો જોવા MORE મોકલો.",
		KeyLocationCity:      "તમે કયા શહેર અથવા જિલ્લામાં છો?",
		KeyDescription:       "કૃપા કરીને જણાવો કે શું થયું, યાદ હોય તો તારીખ અને સમય સાથે.",
		KeySuspectDetails: "શંકાસ્પદ વિશે કોઈપણ માહિતી મોકલો: ફોન નંબર, ઇમેઇલ, UPI ID, વેબસાઇટ અથવા ખાતું. " +
			"કંઈ ન હોય તો 'unknown' મોકલો.",
		KeyAmount:   "કેટલા રૂપિયા (₹) નું નુકસાન થયું? ન હોય તો 0 મોકલો.",
		KeyEvidence: "હમણાં સ્ક્રીનશોટ, રસીદ અથવા અન્ય પુરાવા મોકલો. ન હોય તો SKIP મોકલો.",
		KeyAnonymous: "શું તમે અનામી રીતે ફરિયાદ કરવા માંગો છો?\n1. હા, મને અનામી રાખો\n" +
			"2. ના, પોલીસ મારો આ નંબર પર સંપર્ક કરી શકે છે",
		KeyConfirmation: "✅ તમારી ફરિયાદ નોંધાઈ ગઈ છે.\n\nસંદર્ભ આઈડી: {reference_id}\n\n" +
			"આગળની માહિતી માટે આ આઈડી રાખો. તાત્કાલિક મદદ માટે {helpline} પર કૉલ કરો.",
		KeyInvalidInput:     "❌ માફ કરશો, આ માન્ય વિકલ્પ નથી. કૃપા કરીને ફરી પ્રયાસ કરો.",
		KeySubmissionFailed: "⚠️ હમણાં તમારી ફરિયાદ સાચવી શકાઈ નથી. તમારા જવાબો સુરક્ષિત છે: થોડી વારમાં તમારો છેલ્લો જવાબ ફરી મોકલો અથવા {helpline} પર કૉલ કરો.",
		KeyInternalError:    "⚠️ કંઈક ખોટું થયું. કૃપા કરીને ફરી પ્રયાસ કરો અથવા {helpline} પર કૉલ કરો.",
	},
}

//nolint:gochecknoglobals // read-only option tables
var fraudMediums = map[Language][]Option{
	English: {
		{Code: "1", Label: "Phone Call"},
		{Code: "2", Label: "SMS"},
		{Code: "3", Label: "WhatsApp"},
		{Code: "4", Label: "Email"},
		{Code: "5", Label: "UPI/Payment App"},
		{Code: "6", Label: "Social Media"},
		{Code: "7", Label: "E-commerce Website"},
		{Code: "8", Label: "Other"},
	},
	Hindi: {
		{Code: "1", Label: "फ़ोन कॉल"},
		{Code: "2", Label: "एसएमएस"},
		{Code: "3", Label: "व्हाट्सएप"},
		{Code: "4", Label: "ईमेल"},
		{Code: "5", Label: "UPI/पेमेंट ऐप"},
		{Code: "6", Label: "सोशल मीडिया"},
		{Code: "7", Label: "ई-कॉमर्स वेबसाइट"},
		{Code: "8", Label: "अन्य"},
	},
	Gujarati: {
		{Code: "1", Label: "ફોન કૉલ"},
		{Code: "2", Label: "એસએમએસ"},
		{Code: "3", Label: "વોટ્સએપ"},
		{Code: "4", Label: "ઇમેઇલ"},
		{Code: "5", Label: "UPI/પેમેન્ટ એપ"},
		{Code: "6", Label: "સોશિયલ મીડિયા"},
		{Code: "7", Label: "ઈ-કોમર્સ વેબસાઇટ"},
		{Code: "8", Label: "અન્ય"},
	},
}

//nolint:gochecknoglobals // read-only option tables
var incidentTypes = map[Language][]Option{
	English: {
		{Code: "1", Label: "Phishing Link"},
		{Code: "2", Label: "Fake Payment Request"},
		{Code: "3", Label: "Impersonation"},
		{Code: "4", Label: "Investment Scam"},
		{Code: "5", Label: "Job/Loan Fraud"},
		{Code: "6", Label: "Sextortion/Blackmail"},
		{Code: "7", Label: "Other"},
	},
	Hindi: {
		{Code: "1", Label: "फ़िशिंग लिंक"},
		{Code: "2", Label: "नकली भुगतान अनुरोध"},
		{Code: "3", Label: "प्रतिरूपण"},
		{Code: "4", Label: "निवेश घोटाला"},
		{Code: "5", Label: "नौकरी/लोन धोखाधड़ी"},
		{Code: "6", Label: "सेक्सटॉर्शन/ब्लैकमेल"},
		{Code: "7", Label: "अन्य"},
	},
	Gujarati: {
		{Code: "1", Label: "ફિશિંગ લિંક"},
		{Code: "2", Label: "નકલી ચુકવણી વિનંતી"},
		{Code: "3", Label: "ઢોંગ"},
		{Code: "4", Label: "રોકાણ કૌભાંડ"},
		{Code: "5", Label: "નોકરી/લોન છેતરપિંડી"},
		{Code: "6", Label: "સેક્સટોર્શન/બ્લેકમેલ"},
		{Code: "7", Label: "અન્ય"},
	},
}

//nolint:gochecknoglobals // read-only list
var states = []string{
	"Andhra Pradesh",
	"Arunachal Pradesh",
	"Assam",
	"Bihar",
	"Chhattisgarh",
	"Goa",
	"Gujarat",
	"Haryana",
	"Himachal Pradesh",
	"Jharkhand",
	"Karnataka",
	"Kerala",
	"Madhya Pradesh",
	"Maharashtra",
	"Manipur",
	"Meghalaya",
	"Mizoram",
	"Nagaland",
	"Odisha",
	"Punjab",
	"Rajasthan",
	"Sikkim",
	"Tamil Nadu",
	"Telangana",
	"Tripura",
	"Uttar Pradesh",
	"Uttarakhand",
	"West Bengal",
	"Andaman and Nicobar Islands",
	"Chandigarh",
	"Dadra and Nagar Haveli and Daman and Diu",
	"Delhi",
	"Jammu and Kashmir",
	"Ladakh",
	"Lakshadweep",
	"Puducherry",
}
