// Package application contém os casos de uso do filtro de admissão: o motor
// de decisão (Engine), a pontuação heurística de bot (Scorer), as operações
// administrativas (AdminService) e a aquisição de vagas (SlotService).
//
// Ele depende apenas do pacote domain e não conhece net/http.
// Ex.: Engine.Inspect(req) retorna um Outcome (allow/deny + registro).
package application
