// Package domain define os contratos e tipos de domínio do filtro de admissão:
// configuração resolvida, registro de bloqueio, contadores de janela fixa,
// pontuação de bot e o contrato mínimo de armazenamento chave-valor.
//
// Este pacote não depende de net/http nem de implementações concretas.
// A intenção é permitir testes de unidade puros e manter as regras de negócio
// separadas de detalhes de infraestrutura (Redis, roteador, proxy).
package domain
