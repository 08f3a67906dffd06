// Package infra contém as implementações concretas (infraestrutura) para os
// contratos definidos no pacote domain.
//
// Exemplos:
//   - RedisKV / MemoryKV: armazenamento chave-valor com TTL
//   - BlockStore / CounterStore / ScoreStore: persistência do filtro sobre um KV
//   - RedisStatsStore / MemoryStatsStore: estatísticas de decisão
//   - ChanPool: semáforo simples para limite de concorrência
package infra
