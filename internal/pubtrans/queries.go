package pubtrans

import "fmt"

// Result column aliases shared by the extraction queries. Transformers scan
// columns positionally in the order the queries select them.
const (
	ColDvjID        = "dvj_id"
	ColRouteName    = "route"
	ColDirection    = "direction"
	ColOperatingDay = "operating_day"
	ColStartTime    = "start_time"
	ColStopNumber   = "stop_number"
)

// journeySelect is the shared projection for dated vehicle journeys. The
// operating day comes out as style 112 (yyyymmdd) and the planned start as
// HH:MM:00 built from the offset datetime, so hours can exceed 23 for
// journeys scheduled past midnight of their operating day.
const journeySelect = `SELECT
	DISTINCT CONVERT(CHAR(16), DVJ.Id) AS ` + ColDvjID + `,
	KVV.StringValue AS ` + ColRouteName + `,
	SUBSTRING(CONVERT(CHAR(16), VJT.IsWorkedOnDirectionOfLineGid), 12, 1) AS ` + ColDirection + `,
	CONVERT(CHAR(8), DVJ.OperatingDayDate, 112) AS ` + ColOperatingDay + `,
	RIGHT('0' + (CONVERT(VARCHAR(2), (DATEDIFF(HOUR, '1900-01-01', PlannedStartOffsetDateTime)))), 2)
		+ ':' + RIGHT('0' + CONVERT(VARCHAR(2), ((DATEDIFF(MINUTE, '1900-01-01', PlannedStartOffsetDateTime))
		- ((DATEDIFF(HOUR, '1900-01-01', PlannedStartOffsetDateTime) * 60)))), 2) + ':00' AS ` + ColStartTime

const journeyFrom = `
FROM ptDOI4_Community.dbo.DatedVehicleJourney AS DVJ
LEFT JOIN ptDOI4_Community.dbo.VehicleJourney AS VJ ON (DVJ.IsBasedOnVehicleJourneyId = VJ.Id)
LEFT JOIN ptDOI4_Community.dbo.VehicleJourneyTemplate AS VJT ON (DVJ.IsBasedOnVehicleJourneyTemplateId = VJT.Id)
LEFT JOIN ptDOI4_Community.T.KeyVariantValue AS KVV ON (KVV.IsForObjectId = VJ.Id)
LEFT JOIN ptDOI4_Community.dbo.KeyVariantType AS KVT ON (KVT.Id = KVV.IsOfKeyVariantTypeId)
LEFT JOIN ptDOI4_Community.dbo.KeyType AS KT ON (KT.Id = KVT.IsForKeyTypeId)
LEFT JOIN ptDOI4_Community.dbo.ObjectType AS OT ON (KT.ExtendsObjectTypeNumber = OT.Number)`

// journeyWhere bounds the result to journeys carrying a Jore identity within
// the date window, excluding replaced journeys. The window bounds are the only
// interpolated values and are always produced by DateWindow in a fixed format.
const journeyWhere = `
WHERE
	(
		KT.Name = 'JoreIdentity'
		OR KT.Name = 'JoreRouteIdentity'
		OR KT.Name = 'RouteName'
	)
	AND OT.Name = 'VehicleJourney'
	AND VJT.IsWorkedOnDirectionOfLineGid IS NOT NULL
	AND DVJ.OperatingDayDate >= '%s'
	AND DVJ.OperatingDayDate < '%s'
	AND DVJ.IsReplacedById IS NULL`

// JourneyQuery returns the dated vehicle journey extraction query for the
// given window.
func JourneyQuery(w DateWindow) string {
	return journeySelect + journeyFrom + fmt.Sprintf(journeyWhere, w.From, w.To)
}

// StopQuery returns the journey pattern point extraction query. The GROUP BY
// deduplicates points that appear on multiple journey patterns.
func StopQuery() string {
	return `SELECT
	[Gid], [Number]
FROM [ptDOI4_Community].[dbo].[JourneyPatternPoint] AS JPP
GROUP BY JPP.Gid, JPP.Number`
}

// MetroJourneyQuery returns the journey query restricted to the metro
// transport mode, extended with the journey's first journey pattern point.
func MetroJourneyQuery(w DateWindow) string {
	return journeySelect +
		`,
	CONVERT(CHAR(7), JPP.Number) AS ` + ColStopNumber +
		journeyFrom +
		`
LEFT JOIN ptDOI4_Community.dbo.JourneyPatternPoint AS JPP ON (VJT.StartsAtJourneyPatternPointGid = JPP.Gid)` +
		fmt.Sprintf(journeyWhere, w.From, w.To) +
		`
	AND VJT.TransportModeCode = 'METRO'`
}
