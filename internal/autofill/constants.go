package autofill

// Static matching data. All of it is immutable after DefaultTables returns;
// the engine holds a single *Tables and threads it by reference into the
// locators and the classifier. The term lists and attribute orderings are
// compatibility data: real-world page markup is matched against these exact
// strings, so they must not be "cleaned up".

// ClassifierRule binds one logical fill target to its ordered term list.
// A normalized attribute value matches a term when it equals the term, or
// when the term is containment-eligible and the value contains it as a
// substring. ContainsTerms nil means every term is containment-eligible;
// otherwise only the listed subset is.
type ClassifierRule struct {
	Target        string
	Terms         []string
	ContainsTerms []string
}

// Tables aggregates every static lookup the engine needs.
type Tables struct {
	// UsernameFieldNames feed both the exact-match short circuit of the
	// username locator and the username-only fuzzy fill.
	UsernameFieldNames  []string
	FirstnameFieldNames []string
	LastnameFieldNames  []string

	// ExcludedFieldTypes are control types never considered by the
	// card/identity classifier.
	ExcludedFieldTypes []string

	// PasswordIgnoreTerms disqualify a text field from the "looks like a
	// password field" fallback even though it mentions "password".
	PasswordIgnoreTerms []string

	// Month/year abbreviations per language, index-aligned:
	// 0 English, 1 Danish, 2 German/Dutch, 3 French/Spanish/Italian,
	// 4 Russian, 5 Portuguese.
	MonthAbbr     []string
	YearAbbrShort []string
	YearAbbrLong  []string

	CardRules     []ClassifierRule
	IdentityRules []ClassifierRule

	IsoCountries map[string]string
	IsoStates    map[string]string
	IsoProvinces map[string]string

	// OperationDelaysByHost overrides the default inter-operation delay for
	// hosts that drop events when replayed too fast.
	OperationDelaysByHost map[string]int
}

// Card/identity classifier fill target names.
const (
	targetCardholderName = "cardholderName"
	targetCardNumber     = "number"
	targetCardExp        = "exp"
	targetCardExpMonth   = "expMonth"
	targetCardExpYear    = "expYear"
	targetCardCode       = "code"
	targetCardBrand      = "brand"

	targetIDName       = "name"
	targetIDFirstName  = "firstName"
	targetIDMiddleName = "middleName"
	targetIDLastName   = "lastName"
	targetIDTitle      = "title"
	targetIDEmail      = "email"
	targetIDAddress    = "address"
	targetIDAddress1   = "address1"
	targetIDAddress2   = "address2"
	targetIDAddress3   = "address3"
	targetIDPostalCode = "postalCode"
	targetIDCity       = "city"
	targetIDState      = "state"
	targetIDCountry    = "country"
	targetIDPhone      = "phone"
	targetIDUsername   = "username"
	targetIDCompany    = "company"
)

// DefaultTables returns the built-in matching data.
func DefaultTables() *Tables {
	return &Tables{
		UsernameFieldNames: []string{
			// English
			"username", "user name", "email", "email address", "e-mail", "e-mail address",
			"userid", "user id", "customer id", "login id",
			// German
			"benutzername", "benutzer name", "email adresse", "e-mail adresse", "benutzerid", "benutzer id",
		},
		FirstnameFieldNames: []string{
			// English
			"f-name", "first-name", "given-name", "first-n",
			// German
			"vorname",
		},
		LastnameFieldNames: []string{
			// English
			"l-name", "last-name", "s-name", "surname", "family-name", "family-n", "last-n",
			// German
			"nachname", "familienname",
		},

		ExcludedFieldTypes: []string{"radio", "checkbox", "hidden", "file", "button", "image", "reset", "search"},

		PasswordIgnoreTerms: []string{"onetimepassword", "captcha", "findanything"},

		MonthAbbr:     []string{"mm", "mm", "mm", "mm", "mm", "mm"},
		YearAbbrShort: []string{"yy", "åå", "jj", "aa", "гг", "rr"},
		YearAbbrLong:  []string{"yyyy", "åååå", "jjjj", "aa", "гггг", "rrrr"},

		CardRules: []ClassifierRule{
			// ref https://html.spec.whatwg.org/multipage/form-control-infrastructure.html#autofill
			{
				Target: targetCardholderName,
				Terms:  []string{"cc-name", "card-name", "cardholder-name", "cardholder", "name", "nom"},
				ContainsTerms: []string{
					"cc-name", "card-name", "cardholder-name", "cardholder", "tbName",
				},
			},
			{
				Target: targetCardNumber,
				Terms: []string{
					"cc-number", "cc-num", "card-number", "card-num", "number", "cc", "cc-no", "card-no",
					"credit-card", "numero-carte", "carte", "carte-credit", "num-carte", "cb-num",
				},
				ContainsTerms: []string{
					"cc-number", "cc-num", "card-number", "card-num", "cc-no", "card-no", "numero-carte",
					"num-carte", "cb-num",
				},
			},
			{
				Target: targetCardExp,
				Terms: []string{
					"cc-exp", "card-exp", "cc-expiration", "card-expiration", "cc-ex", "card-ex",
					"card-expire", "card-expiry", "validite", "expiration", "expiry", "mm-yy",
					"mm-yyyy", "yy-mm", "yyyy-mm", "expiration-date", "payment-card-expiration",
					"payment-cc-date",
				},
				ContainsTerms: []string{
					"mm-yy", "mm-yyyy", "yy-mm", "yyyy-mm", "expiration-date", "payment-card-expiration",
				},
			},
			{
				Target: targetCardExpMonth,
				Terms: []string{
					"exp-month", "cc-exp-month", "cc-month", "card-month", "cc-mo", "card-mo", "exp-mo",
					"card-exp-mo", "cc-exp-mo", "card-expiration-month", "expiration-month",
					"cc-mm", "cc-m", "card-mm", "card-m", "card-exp-mm", "cc-exp-mm", "exp-mm", "exp-m",
					"expire-month", "expire-mo", "expiry-month", "expiry-mo", "card-expire-month",
					"card-expire-mo", "card-expiry-month", "card-expiry-mo", "mois-validite",
					"mois-expiration", "m-validite", "m-expiration", "expiry-date-field-month",
					"expiration-date-month", "expiration-date-mm", "exp-mon", "validity-mo",
					"exp-date-mo", "cb-date-mois", "date-m",
				},
			},
			{
				Target: targetCardExpYear,
				Terms: []string{
					"exp-year", "cc-exp-year", "cc-year", "card-year", "cc-yr", "card-yr", "exp-yr",
					"card-exp-yr", "cc-exp-yr", "card-expiration-year", "expiration-year",
					"cc-yy", "cc-y", "card-yy", "card-y", "card-exp-yy", "cc-exp-yy", "exp-yy", "exp-y",
					"cc-yyyy", "card-yyyy", "card-exp-yyyy", "cc-exp-yyyy", "expire-year", "expire-yr",
					"expiry-year", "expiry-yr", "card-expire-year", "card-expire-yr", "card-expiry-year",
					"card-expiry-yr", "an-validite", "an-expiration", "annee-validite",
					"annee-expiration", "expiry-date-field-year", "expiration-date-year", "cb-date-ann",
					"expiration-date-yy", "expiration-date-yyyy", "validity-year", "exp-date-year", "date-y",
				},
			},
			{
				Target: targetCardCode,
				Terms: []string{
					"cvv", "cvc", "cvv2", "cc-csc", "cc-cvv", "card-csc", "card-cvv", "cvd", "cid", "cvc2",
					"cnv", "cvn2", "cc-code", "card-code", "code-securite", "security-code", "crypto",
					"card-verif", "verification-code", "csc", "ccv",
				},
			},
			{
				Target: targetCardBrand,
				Terms:  []string{"cc-type", "card-type", "card-brand", "cc-brand", "cb-type"},
			},
		},

		IdentityRules: []ClassifierRule{
			{
				Target:        targetIDName,
				Terms:         []string{"name", "full-name", "your-name"},
				ContainsTerms: []string{"full-name", "your-name"},
			},
			{
				Target: targetIDFirstName,
				Terms:  []string{"f-name", "first-name", "given-name", "first-n", "vorname"},
			},
			{
				Target: targetIDMiddleName,
				Terms:  []string{"m-name", "middle-name", "additional-name", "middle-initial", "middle-n", "middle-i"},
			},
			{
				Target: targetIDLastName,
				Terms: []string{
					"l-name", "last-name", "s-name", "surname", "family-name", "family-n", "last-n",
					"nachname", "familienname",
				},
			},
			{
				Target: targetIDTitle,
				Terms:  []string{"honorific-prefix", "prefix", "title"},
			},
			{
				Target: targetIDEmail,
				Terms:  []string{"e-mail", "email-address"},
			},
			{
				Target: targetIDAddress,
				Terms: []string{
					"address", "street-address", "addr", "street", "mailing-addr", "billing-addr",
					"mail-addr", "bill-addr",
				},
				ContainsTerms: []string{"mailing-addr", "billing-addr", "mail-addr", "bill-addr"},
			},
			{
				Target: targetIDAddress1,
				Terms:  []string{"address-1", "address-line-1", "addr-1", "street-1"},
			},
			{
				Target: targetIDAddress2,
				Terms:  []string{"address-2", "address-line-2", "addr-2", "street-2"},
			},
			{
				Target: targetIDAddress3,
				Terms:  []string{"address-3", "address-line-3", "addr-3", "street-3"},
			},
			{
				Target: targetIDPostalCode,
				Terms: []string{
					"postal", "zip", "zip2", "zip-code", "postal-code", "post-code", "address-zip",
					"address-postal", "address-code", "address-postal-code", "address-zip-code",
				},
			},
			{
				Target: targetIDCity,
				Terms:  []string{"city", "town", "address-level-2", "address-city", "address-town"},
			},
			{
				Target: targetIDState,
				Terms:  []string{"state", "province", "provence", "address-level-1", "address-state", "address-province"},
			},
			{
				Target: targetIDCountry,
				Terms: []string{
					"country", "country-code", "country-name", "address-country", "address-country-name",
					"address-country-code",
				},
			},
			{
				Target: targetIDPhone,
				Terms:  []string{"phone", "mobile", "mobile-phone", "tel", "telephone", "phone-number"},
			},
			{
				Target: targetIDUsername,
				Terms:  []string{"user-name", "user-id", "screen-name"},
			},
			{
				Target: targetIDCompany,
				Terms:  []string{"company", "company-name", "organization", "organization-name"},
			},
		},

		IsoCountries: map[string]string{
			"afghanistan": "AF", "aland islands": "AX", "albania": "AL", "algeria": "DZ",
			"american samoa": "AS", "andorra": "AD", "angola": "AO", "anguilla": "AI", "antarctica": "AQ",
			"antigua and barbuda": "AG", "argentina": "AR", "armenia": "AM", "aruba": "AW",
			"australia": "AU", "austria": "AT", "azerbaijan": "AZ", "bahamas": "BS", "bahrain": "BH",
			"bangladesh": "BD", "barbados": "BB", "belarus": "BY", "belgium": "BE", "belize": "BZ",
			"benin": "BJ", "bermuda": "BM", "bhutan": "BT", "bolivia": "BO",
			"bosnia and herzegovina": "BA", "botswana": "BW", "bouvet island": "BV", "brazil": "BR",
			"british indian ocean territory": "IO", "brunei darussalam": "BN", "bulgaria": "BG",
			"burkina faso": "BF", "burundi": "BI", "cambodia": "KH", "cameroon": "CM", "canada": "CA",
			"cape verde": "CV", "cayman islands": "KY", "central african republic": "CF", "chad": "TD",
			"chile": "CL", "china": "CN", "christmas island": "CX", "cocos (keeling) islands": "CC",
			"colombia": "CO", "comoros": "KM", "congo": "CG", "congo, democratic republic": "CD",
			"cook islands": "CK", "costa rica": "CR", "cote d'ivoire": "CI", "croatia": "HR",
			"cuba": "CU", "cyprus": "CY", "czech republic": "CZ", "denmark": "DK", "djibouti": "DJ",
			"dominica": "DM", "dominican republic": "DO", "ecuador": "EC", "egypt": "EG",
			"el salvador": "SV", "equatorial guinea": "GQ", "eritrea": "ER", "estonia": "EE",
			"ethiopia": "ET", "falkland islands": "FK", "faroe islands": "FO", "fiji": "FJ",
			"finland": "FI", "france": "FR", "french guiana": "GF", "french polynesia": "PF",
			"french southern territories": "TF", "gabon": "GA", "gambia": "GM", "georgia": "GE",
			"germany": "DE", "ghana": "GH", "gibraltar": "GI", "greece": "GR", "greenland": "GL",
			"grenada": "GD", "guadeloupe": "GP", "guam": "GU", "guatemala": "GT", "guernsey": "GG",
			"guinea": "GN", "guinea-bissau": "GW", "guyana": "GY", "haiti": "HT",
			"heard island & mcdonald islands": "HM", "holy see (vatican city state)": "VA",
			"honduras": "HN", "hong kong": "HK", "hungary": "HU", "iceland": "IS", "india": "IN",
			"indonesia": "ID", "iran, islamic republic of": "IR", "iraq": "IQ", "ireland": "IE",
			"isle of man": "IM", "israel": "IL", "italy": "IT", "jamaica": "JM", "japan": "JP",
			"jersey": "JE", "jordan": "JO", "kazakhstan": "KZ", "kenya": "KE", "kiribati": "KI",
			"republic of korea": "KR", "south korea": "KR", "democratic people's republic of korea": "KP",
			"north korea": "KP", "kuwait": "KW", "kyrgyzstan": "KG",
			"lao people's democratic republic": "LA", "latvia": "LV", "lebanon": "LB", "lesotho": "LS",
			"liberia": "LR", "libyan arab jamahiriya": "LY", "liechtenstein": "LI", "lithuania": "LT",
			"luxembourg": "LU", "macao": "MO", "macedonia": "MK", "madagascar": "MG", "malawi": "MW",
			"malaysia": "MY", "maldives": "MV", "mali": "ML", "malta": "MT", "marshall islands": "MH",
			"martinique": "MQ", "mauritania": "MR", "mauritius": "MU", "mayotte": "YT", "mexico": "MX",
			"micronesia, federated states of": "FM", "moldova": "MD", "monaco": "MC", "mongolia": "MN",
			"montenegro": "ME", "montserrat": "MS", "morocco": "MA", "mozambique": "MZ", "myanmar": "MM",
			"namibia": "NA", "nauru": "NR", "nepal": "NP", "netherlands": "NL",
			"netherlands antilles": "AN", "new caledonia": "NC", "new zealand": "NZ", "nicaragua": "NI",
			"niger": "NE", "nigeria": "NG", "niue": "NU", "norfolk island": "NF",
			"northern mariana islands": "MP", "norway": "NO", "oman": "OM", "pakistan": "PK",
			"palau": "PW", "palestinian territory, occupied": "PS", "panama": "PA",
			"papua new guinea": "PG", "paraguay": "PY", "peru": "PE", "philippines": "PH",
			"pitcairn": "PN", "poland": "PL", "portugal": "PT", "puerto rico": "PR", "qatar": "QA",
			"reunion": "RE", "romania": "RO", "russian federation": "RU", "rwanda": "RW",
			"saint barthelemy": "BL", "saint helena": "SH", "saint kitts and nevis": "KN",
			"saint lucia": "LC", "saint martin": "MF", "saint pierre and miquelon": "PM",
			"saint vincent and grenadines": "VC", "samoa": "WS", "san marino": "SM",
			"sao tome and principe": "ST", "saudi arabia": "SA", "senegal": "SN", "serbia": "RS",
			"seychelles": "SC", "sierra leone": "SL", "singapore": "SG", "slovakia": "SK",
			"slovenia": "SI", "solomon islands": "SB", "somalia": "SO", "south africa": "ZA",
			"south georgia and sandwich isl.": "GS", "spain": "ES", "sri lanka": "LK", "sudan": "SD",
			"suriname": "SR", "svalbard and jan mayen": "SJ", "swaziland": "SZ", "sweden": "SE",
			"switzerland": "CH", "syrian arab republic": "SY", "taiwan": "TW", "tajikistan": "TJ",
			"tanzania": "TZ", "thailand": "TH", "timor-leste": "TL", "togo": "TG", "tokelau": "TK",
			"tonga": "TO", "trinidad and tobago": "TT", "tunisia": "TN", "turkey": "TR",
			"turkmenistan": "TM", "turks and caicos islands": "TC", "tuvalu": "TV", "uganda": "UG",
			"ukraine": "UA", "united arab emirates": "AE", "united kingdom": "GB",
			"united states": "US", "united states outlying islands": "UM", "uruguay": "UY",
			"uzbekistan": "UZ", "vanuatu": "VU", "venezuela": "VE", "vietnam": "VN",
			"virgin islands, british": "VG", "virgin islands, u.s.": "VI", "wallis and futuna": "WF",
			"western sahara": "EH", "yemen": "YE", "zambia": "ZM", "zimbabwe": "ZW",
		},

		IsoStates: map[string]string{
			"alabama": "AL", "alaska": "AK", "american samoa": "AS", "arizona": "AZ", "arkansas": "AR",
			"california": "CA", "colorado": "CO", "connecticut": "CT", "delaware": "DE",
			"district of columbia": "DC", "federated states of micronesia": "FM", "florida": "FL",
			"georgia": "GA", "guam": "GU", "hawaii": "HI", "idaho": "ID", "illinois": "IL",
			"indiana": "IN", "iowa": "IA", "kansas": "KS", "kentucky": "KY", "louisiana": "LA",
			"maine": "ME", "marshall islands": "MH", "maryland": "MD", "massachusetts": "MA",
			"michigan": "MI", "minnesota": "MN", "mississippi": "MS", "missouri": "MO", "montana": "MT",
			"nebraska": "NE", "nevada": "NV", "new hampshire": "NH", "new jersey": "NJ",
			"new mexico": "NM", "new york": "NY", "north carolina": "NC", "north dakota": "ND",
			"northern mariana islands": "MP", "ohio": "OH", "oklahoma": "OK", "oregon": "OR",
			"palau": "PW", "pennsylvania": "PA", "puerto rico": "PR", "rhode island": "RI",
			"south carolina": "SC", "south dakota": "SD", "tennessee": "TN", "texas": "TX",
			"utah": "UT", "vermont": "VT", "virgin islands": "VI", "virginia": "VA",
			"washington": "WA", "west virginia": "WV", "wisconsin": "WI", "wyoming": "WY",
		},

		IsoProvinces: map[string]string{
			"alberta": "AB", "british columbia": "BC", "manitoba": "MB", "new brunswick": "NB",
			"newfoundland and labrador": "NL", "nova scotia": "NS", "ontario": "ON",
			"prince edward island": "PE", "quebec": "QC", "saskatchewan": "SK",
		},

		OperationDelaysByHost: map[string]int{
			"buzzsprout.com": 100,
		},
	}
}
