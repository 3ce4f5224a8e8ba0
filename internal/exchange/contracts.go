package exchange

// Symbol to USDT-M contract identifier. An explicit table instead of suffix
// substitution: pairs like USDCUSDT contain the quote currency inside the
// asset code and a naive replace would mangle them.
var contracts = map[string]string{
	"BTCUSDT":  "BTCUSDT_UMCBL",
	"ETHUSDT":  "ETHUSDT_UMCBL",
	"SOLUSDT":  "SOLUSDT_UMCBL",
	"XRPUSDT":  "XRPUSDT_UMCBL",
	"DOGEUSDT": "DOGEUSDT_UMCBL",
	"ADAUSDT":  "ADAUSDT_UMCBL",
	"LTCUSDT":  "LTCUSDT_UMCBL",
	"LINKUSDT": "LINKUSDT_UMCBL",
	"AVAXUSDT": "AVAXUSDT_UMCBL",
	"BNBUSDT":  "BNBUSDT_UMCBL",
	"USDCUSDT": "USDCUSDT_UMCBL",
}

// ContractID maps a plain trading pair to the exchange contract identifier.
// Unknown pairs follow the documented product rule: a product-type suffix is
// appended to the full pair, never spliced into it.
func ContractID(symbol string) string {
	if id, ok := contracts[symbol]; ok {
		return id
	}
	return symbol + "_UMCBL"
}
