// Package admin expõe a API administrativa do filtro sob o prefixo
// configurado (padrão /__botnet): health check aberto e rotas autenticadas
// por bearer token para consultar, criar e remover bloqueios.
//
// A tabela de rotas é fechada: /health, /status, /block e /unblock. Qualquer
// outro caminho sob o prefixo exige o token e responde 404. Diferente da
// inspeção, operações aqui nunca são fail-open: store ausente ou com erro
// vira 500 explícito.
package admin
