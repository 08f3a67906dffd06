// Package botfilter fornece o filtro de admissão por endereço como middleware
// HTTP (net/http): bloqueio persistido com TTL, janelas fixas de rate limit
// (sustentada + rajada), pontuação heurística de bot e uma API administrativa
// autenticada.
//
// Visão geral (camadas):
//
//   - domain: contratos e tipos do domínio (sem dependência de net/http)
//   - application: casos de uso (inspeção, pontuação, administração)
//   - infra: implementações concretas (Redis, memória, semáforo)
//   - admin: API administrativa (chi) atendida sob o prefixo configurado
//   - botfilter (este pacote): middleware HTTP + extração de endereço +
//     tradução de decisões para status/corpo
//
// Fluxo por requisição:
//
//  1. Caminho administrativo? Despacha para a API antes de qualquer inspeção
//  2. Stores não configurados? Passagem direta (fail-open)
//  3. Extrai e valida o endereço do header confiável; sem endereço válido ou
//     na allowlist, passagem direta
//  4. Inspeção: bloqueio vigente, janela sustentada, rajada, assinatura de bot
//  5. Bloqueado responde 403 com JSON; permitido segue para o próximo handler
//     (ex: reverse proxy) sem alteração
//
// Variáveis de ambiente do binário gateway (cmd/gateway) controlam o
// comportamento, como RATE_WINDOW_SECONDS, RATE_MAX_REQUESTS,
// BLOCK_TTL_SECONDS e ADMIN_TOKEN.
package botfilter
